package bytebuf

const hexDigits = "0123456789ABCDEF"

// Quote appends a double-quoted rendering of p to b, escaping control and
// non-ASCII bytes so diagnostics stay printable. Common escapes keep their
// usual spelling, everything else becomes \xNN.
func Quote(b *Buffer, p []byte) {
	b.AppendByte('"')
	for _, c := range p {
		switch c {
		case '\n':
			b.AppendString(`\n`)
		case '\r':
			b.AppendString(`\r`)
		case '\t':
			b.AppendString(`\t`)
		case '\\':
			b.AppendString(`\\`)
		case '"':
			b.AppendString(`\"`)
		default:
			if c < 0x20 || c >= 0x7F {
				b.AppendString(`\x`)
				b.AppendByte(hexDigits[c>>4])
				b.AppendByte(hexDigits[c&0xF])
			} else {
				b.AppendByte(c)
			}
		}
	}
	b.AppendByte('"')
}

// QuoteString is a convenience wrapper around Quote for one-off use.
func QuoteString(p []byte) string {
	var b Buffer
	Quote(&b, p)
	return string(b.Bytes())
}
