// Package transaction implements the lifecycle of a single blockchain
// transaction: describe it, submit it once through a registered chain route,
// and observe it move through the sent, confirmed and ensured (or failed)
// milestones.
//
// Every milestone can be observed three ways, all fed by the same single-fire
// event: callbacks given to New, callbacks given to Submit, and the blocking
// accessors (Confirmation, Ensurance, Failure, Await). Observers attached after
// a milestone fired see it immediately.
//
//	tx, err := transaction.New(transaction.Config{
//		Chain: "bsc",
//		To:    "0xae60aC8e69414C2Dc362D0e6a03af643d1D85b92",
//		Value: transaction.Float(0.123),
//	})
//	if err != nil {
//		return err
//	}
//	if _, err := tx.Submit(ctx); err != nil {
//		return err
//	}
//	if _, err := tx.Confirmation(ctx); err != nil {
//		return err
//	}
package transaction
