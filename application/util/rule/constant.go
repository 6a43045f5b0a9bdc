package rule

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
	VT   byte = 0x0B
	FF   byte = 0x0C
	DEL  byte = 0x7F
)

var (
	OWS  = []byte{SP, HTAB}
	CRLF = []byte{CR, LF}

	// HeadDelimiter separates the head of a message from its body.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.1
	HeadDelimiter = []byte{CR, LF, CR, LF}
)
