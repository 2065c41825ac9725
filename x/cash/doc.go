/*
Package cash implements a single token wallet for every address and a send
message moving tokens between wallets.

Any account that can authenticate as the source of a transfer may send, which
includes multi signature accounts executing an approved call.
*/
package cash
