// Package lock provides a single-attempt, token-owned lock on one
// coordination store key. Acquisition is one atomic create-if-absent round
// trip and release is one atomic compare-and-delete; there is no waiting,
// polling, or retry. The key's TTL is the only recovery path when a holder
// crashes. Leader election and work locking are both built on this type.
package lock
