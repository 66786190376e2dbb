// Package transfer is a worked example of the runtime: alice is
// funded at genesis, pays bob and charlie in the first block, and the
// second block shows a failing transfer being skipped while the rest
// of the block still applies.
package transfer

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/blockberries/frame/chain"
	"github.com/blockberries/frame/types"
)

// Accounts used by the scenario.
const (
	Alice   types.AccountID = "alice"
	Bob     types.AccountID = "bob"
	Charlie types.AccountID = "charlie"
)

// Genesis funds alice with 100.
func Genesis() types.Genesis {
	return types.Genesis{Balances: []types.GenesisBalance{
		{Account: Alice, Amount: types.NewBalance(100)},
	}}
}

// Blocks returns the scenario's blocks in order.
func Blocks() []chain.Block {
	return []chain.Block{
		{
			Header: chain.Header{BlockNumber: 1},
			Extrinsics: []chain.Extrinsic{
				{Caller: Alice, Call: chain.TransferCall(Bob, types.NewBalance(30))},
				{Caller: Alice, Call: chain.TransferCall(Charlie, types.NewBalance(20))},
			},
		},
		{
			Header: chain.Header{BlockNumber: 2},
			Extrinsics: []chain.Extrinsic{
				// bob holds 30, so this one fails.
				{Caller: Bob, Call: chain.TransferCall(Charlie, types.NewBalance(31))},
				{Caller: Charlie, Call: chain.TransferCall(Bob, types.NewBalance(5))},
				{Caller: Charlie, Call: chain.RemarkCall([]byte("thanks alice"))},
			},
		},
	}
}

// Run handshakes node with the scenario's genesis, applies every block
// and returns the outcomes and the final state.
func Run(ctx context.Context, node chain.Node) ([]types.BlockOutcome, types.State, error) {
	g := Genesis()
	if _, err := node.Handshake(ctx, types.HandshakeRequest{Genesis: &g}); err != nil {
		return nil, types.State{}, fmt.Errorf("handshake: %w", err)
	}

	blocks := Blocks()
	outcomes := make([]types.BlockOutcome, 0, len(blocks))
	for _, b := range blocks {
		outcome, err := node.ExecuteBlock(ctx, b)
		if err != nil {
			return outcomes, types.State{}, fmt.Errorf("block %d: %w", b.Header.BlockNumber, err)
		}
		outcomes = append(outcomes, outcome)
	}

	res, err := node.Query(ctx, types.StateQuery{Path: types.QueryState})
	if err != nil {
		return outcomes, types.State{}, fmt.Errorf("query state: %w", err)
	}
	if res.State == nil {
		return outcomes, types.State{}, fmt.Errorf("query state: no state in answer")
	}
	return outcomes, *res.State, nil
}

// Print writes the outcomes and the final state as aligned tables.
func Print(w io.Writer, outcomes []types.BlockOutcome, st types.State) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BLOCK\tEXTRINSIC\tRESULT")
	for _, o := range outcomes {
		for _, r := range o.Results {
			result := "ok"
			if !r.OK() {
				result = r.Info
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\n", o.BlockNumber, r.Index, result)
		}
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "block number: %d\n", st.BlockNumber)
	fmt.Fprintln(tw, "ACCOUNT\tBALANCE\tNONCE")
	for _, a := range st.Accounts {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", a.ID, a.Balance, a.Nonce)
	}
	return tw.Flush()
}
