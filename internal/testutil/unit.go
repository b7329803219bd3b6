package testutil

import (
	"github.com/roach88/unitgate/internal/unit"
)

// Unit is a unit assembled by tests: a fixed identity, an operation table
// and an optional BeforeAll failure.
type Unit struct {
	unit.Base
	ID    string
	Ops   []unit.Operation
	Setup error // returned by BeforeAll
}

// NewUnit creates a unit with the given identity and no operations.
func NewUnit(id string) *Unit {
	return &Unit{ID: id}
}

func (u *Unit) UnitID() string               { return u.ID }
func (u *Unit) Operations() []unit.Operation { return u.Ops }
func (u *Unit) BeforeAll() error             { return u.Setup }

// Op adds an operation.
func (u *Unit) Op(name string, fn func() error) *Unit {
	u.Ops = append(u.Ops, unit.Operation{Name: name, Fn: fn})
	return u
}

// Pass adds an operation recording one passing outcome.
func (u *Unit) Pass(name string) *Unit {
	return u.Op(name, func() error {
		u.Assert(true, "")
		return nil
	})
}

// Fail adds an operation recording one failing outcome with msg.
func (u *Unit) Fail(name, msg string) *Unit {
	return u.Op(name, func() error {
		u.Assert(false, msg)
		return nil
	})
}

// Requires declares a requirement on target.
func (u *Unit) Requires(target *Unit, needOK bool) *Unit {
	u.Need(unit.RequireFunc(target.ID, func() unit.Unit { return target }, needOK))
	return u
}

// SampleSuite returns fresh units covering every status:
//
//	cart      pass
//	checkout  pass, requires cart passed
//	payment   fail
//	refund    skip, requires payment passed
//	ledger    error, BeforeAll fails
func SampleSuite() []unit.Unit {
	cart := NewUnit("cart").Pass("Add")
	checkout := NewUnit("checkout").Pass("Pay").Requires(cart, true)
	payment := NewUnit("payment").Fail("Charge", "declined")
	refund := NewUnit("refund").Pass("Refund").Requires(payment, true)
	ledger := NewUnit("ledger").Pass("Post")
	ledger.Setup = errSetup

	return []unit.Unit{cart, checkout, payment, refund, ledger}
}

// PassingSuite returns fresh units that all pass.
func PassingSuite() []unit.Unit {
	cart := NewUnit("cart").Pass("Add")
	checkout := NewUnit("checkout").Pass("Pay").Requires(cart, true)
	return []unit.Unit{cart, checkout}
}

var errSetup = setupError("ledger unavailable")

type setupError string

func (e setupError) Error() string { return string(e) }
