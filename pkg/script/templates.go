package script

// IsP2PKH recognizes OP_DUP OP_HASH160 <20-byte> OP_EQUALVERIFY OP_CHECKSIG.
func (s Script) IsP2PKH() bool {
	return len(s) == 5 &&
		!s[0].IsData() && s[0].Op == OPDUP &&
		!s[1].IsData() && s[1].Op == OPHASH160 &&
		s[2].IsData() && len(s[2].Data) == 20 &&
		!s[3].IsData() && s[3].Op == OPEQUALVERIFY &&
		!s[4].IsData() && s[4].Op == OPCHECKSIG
}

// IsP2SH recognizes OP_HASH160 <20-byte> OP_EQUAL.
func (s Script) IsP2SH() bool {
	return len(s) == 3 &&
		!s[0].IsData() && s[0].Op == OPHASH160 &&
		s[1].IsData() && len(s[1].Data) == 20 &&
		!s[2].IsData() && s[2].Op == OPEQUAL
}

// IsP2WPKH recognizes OP_0 <20-byte>.
func (s Script) IsP2WPKH() bool {
	return len(s) == 2 &&
		!s[0].IsData() && s[0].Op == OP0 &&
		s[1].IsData() && len(s[1].Data) == 20
}

// IsP2WSH recognizes OP_0 <32-byte>.
func (s Script) IsP2WSH() bool {
	return len(s) == 2 &&
		!s[0].IsData() && s[0].Op == OP0 &&
		s[1].IsData() && len(s[1].Data) == 32
}

// P2PKHScript builds a standard pay-to-pubkey-hash output script for h160.
func P2PKHScript(h160 []byte) Script {
	return Script{
		OpCommand(OPDUP),
		OpCommand(OPHASH160),
		DataCommand(append([]byte{}, h160...)),
		OpCommand(OPEQUALVERIFY),
		OpCommand(OPCHECKSIG),
	}
}

// P2SHScript builds a standard pay-to-script-hash output script for h160.
func P2SHScript(h160 []byte) Script {
	return Script{
		OpCommand(OPHASH160),
		DataCommand(append([]byte{}, h160...)),
		OpCommand(OPEQUAL),
	}
}

// P2WPKHScript builds a v0 witness program output script for h160.
func P2WPKHScript(h160 []byte) Script {
	return Script{
		OpCommand(OP0),
		DataCommand(append([]byte{}, h160...)),
	}
}

// P2WSHScript builds a v0 witness program output script for a 32-byte
// witness script hash.
func P2WSHScript(scriptHash []byte) Script {
	return Script{
		OpCommand(OP0),
		DataCommand(append([]byte{}, scriptHash...)),
	}
}
