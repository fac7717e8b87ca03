// Package constraint implements the solver's velocity constraint rows:
// fixed-layout records that pair a prepare/iterate method set with two
// body handles and row-specific state, following an "open-coded
// polymorphism" discipline (a fixed pair of indirect calls rather than a
// heap vtable). Go expresses the same contract as an interface satisfied
// by value: the itable pointer carried alongside each Row value plays the
// role of the pair of function pointers a row's head would otherwise need.
//
// Hinge and PointOnPlane are the two large-constraint row types. Spring
// is a smaller constraint row for soft-body-style use, sharing the same
// Prepare/Iterate contract with a reduced payload and its own arena.
package constraint
