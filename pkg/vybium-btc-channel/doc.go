// Package vybiumbtcchannel provides the Fiat-Shamir channel of a
// Circle-STARK verifier written in Bitcoin script (tapscript with OP_CAT).
//
// The channel is a single SHA-256 digest. Commitments and field elements
// are absorbed into it, and field elements and query indices are squeezed
// out of it. Every operation exists twice: as host code that also emits
// the hints a script needs, and as a script fragment that re-derives the
// same values from those hints and aborts on any mismatch.
//
// # Host side
//
//	ch := vybiumbtcchannel.NewChannel(seed)
//	ch.AbsorbDigest(commitment)
//	before := ch.Digest()
//	x, hint := ch.SqueezeElement()
//
// # Script side
//
//	verifier, err := vybiumbtcchannel.NewVerifier(vybiumbtcchannel.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := verifier.SqueezeElement(before, hint, x, ch.Digest())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if result.Accepted {
//		fmt.Println("fragment reproduced the draw")
//	}
//
// # Fragment sizes
//
// Script size is a hard limit on chain, so Fragments reports the static
// size and op count of every fragment for a configuration.
package vybiumbtcchannel
