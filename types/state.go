package types

// AccountState is everything the runtime stores for one account.
type AccountState struct {
	ID      AccountID `cramberry:"1"`
	Balance Balance   `cramberry:"2"`
	Nonce   Nonce     `cramberry:"3"`
}

// State is a full snapshot of the runtime. Accounts are sorted by ID
// so equal states have equal encodings.
type State struct {
	BlockNumber BlockNumber    `cramberry:"1"`
	Accounts    []AccountState `cramberry:"2"`
}

// Account returns the entry for id, or a zero entry if absent.
func (s State) Account(id AccountID) AccountState {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a
		}
	}
	return AccountState{ID: id}
}

// GenesisBalance seeds one account.
type GenesisBalance struct {
	Account AccountID `cramberry:"1"`
	Amount  Balance   `cramberry:"2"`
}

// Genesis is the initial state applied before the first block.
type Genesis struct {
	Balances []GenesisBalance `cramberry:"1"`
}

// HandshakeRequest is sent once when a node starts.
type HandshakeRequest struct {
	// Applied only when no persisted state exists.
	Genesis *Genesis `cramberry:"1"`
}

// HandshakeResponse reports the state the runtime starts from.
type HandshakeResponse struct {
	BlockNumber BlockNumber `cramberry:"1"`
	// True if state was loaded from the store instead of genesis.
	Restored bool `cramberry:"2"`
}
