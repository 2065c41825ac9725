/*
Package weave defines all common interfaces to weave together the various
subpackages, as well as implementations of some of the simpler components
(when interfaces would be too much overhead).

The application is built as a stack of Decorators wrapping a Router of
Handlers. Every transaction is processed twice: Check when it enters the
mempool and Deliver when it is included in a block. Handlers receive a
Context carrying block information and authentication data, a KVStore that
is cache-wrapped for the duration of a single transaction, and the
transaction itself.

Extensions live in the x/ directory. x/msa implements multi-signature
accounts whose pending calls are executed once enough signers approve them.
*/
package weave
