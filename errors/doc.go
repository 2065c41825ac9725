/*
Package errors implements custom error interfaces for weave.

Reuse the root errors declared in this package whenever possible and only
register a package specific error when none of them describes the failure.
x/msa is a good package to look at for custom, registered errors.

If you want to register a custom error, use Register(code, description).
Code stands for ABCI error code, which allows the client to distinguish
types of errors and act accordingly.

Always create an error instance with Wrap or Wrapf at the point of failure,
so that a stack trace is attached. Only the innermost wrap records the stack.

Once you have an error, use fmt to get more context
	%s is just the error message
	%+v is the full stack trace
*/
package errors
