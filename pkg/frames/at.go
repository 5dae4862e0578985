package frames

// ATCommand is a two-letter radio configuration/query command name.
type ATCommand string

// Addressing parameters tracked by the engine.
const (
	ATDH ATCommand = "DH" // Destination address high
	ATDL ATCommand = "DL" // Destination address low
	ATMY ATCommand = "MY" // 16-bit source address
	ATMP ATCommand = "MP" // 16-bit parent address
	ATNC ATCommand = "NC" // Number of remaining children
	ATSH ATCommand = "SH" // Serial number high
	ATSL ATCommand = "SL" // Serial number low
	ATNI ATCommand = "NI" // Node identifier
	ATSE ATCommand = "SE" // Source endpoint
	ATDE ATCommand = "DE" // Destination endpoint
	ATCI ATCommand = "CI" // Cluster identifier
	ATTO ATCommand = "TO" // Transmit options
	ATNP ATCommand = "NP" // Maximum RF payload bytes
	ATDD ATCommand = "DD" // Device type identifier
	ATCR ATCommand = "CR" // Conflict report
)

// Control and diagnostics commands.
const (
	ATAP ATCommand = "AP" // API mode
	ATHV ATCommand = "HV" // Hardware version
	ATND ATCommand = "ND" // Node discovery
)

// AddressingCommands is the set of parameters cached by the engine, in the
// order they are queried by a bulk load.
var AddressingCommands = []ATCommand{
	ATDH, ATDL, ATMY, ATMP, ATNC, ATSH, ATSL,
	ATNI, ATSE, ATDE, ATCI, ATTO, ATNP, ATDD, ATCR,
}

// Valid reports whether the command is exactly two bytes.
func (c ATCommand) Valid() bool {
	return len(c) == 2
}
