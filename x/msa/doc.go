/*
Package msa implements multi signature accounts.

An account is controlled by a set of signers. Its address is derived from the
sorted signer set, so the same signers always control the same account. An
author, which is any signer unless a subset of authors was declared, queues a
call on behalf of the account. The call is executed once the number of signers
that approved it reaches the account quorum. Executed calls are authenticated
as the account itself.

The quorum can be changed directly by an author or with a proposal that
signers approve. Lowering the quorum requires the approval of the majority of
all signers while raising it requires the current quorum. When a proposal
passes, every pending call that meets the new quorum is executed.

Each signer may belong to a limited number of accounts. All limits are stored
in the "msa" configuration and can be updated by its owner.
*/
package msa
