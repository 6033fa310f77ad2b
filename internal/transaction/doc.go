// Package transaction groups steps into the unit of dispatch.
//
// A Transaction is an ordered list of steps plus the selection and stored
// marks before and after them. Transactions are built with a Builder and are
// not modified once built:
//
//	tr, err := transaction.NewBuilder(sel, stored, transaction.OriginInput, doc).
//		InsertText("b1", 5, " world").
//		Build()
//
// Invert produces the transaction that undoes another one.
package transaction
