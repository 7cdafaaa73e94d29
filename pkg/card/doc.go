// Package card holds the card metadata catalog: the immutable description
// of every component type (its pins, their electrical roles, drive and tie
// characteristics) that the connectivity model instantiates.
//
// Metadata comes from two places: a small table of built-in constant cards
// (ONE, ZERO, HIZ, IND, RST) and YAML files, one per card code:
//
//	description: Two input AND
//	pins:
//	  A: { type: INPUT }
//	  B: { type: INPUT }
//	  D: { type: OUTPUT, drivetype: AL_PU }
//	  J: { type: GND }
//	  K: { type: PASSIVE, tie: VN12 }
//
// Pin order in the file is the order used for port lists. NC pins are
// dropped, drivetype defaults to AH_PD, and tie is only read for PASSIVE
// pins.
package card
