package result

import "strconv"

// StatementType is the category of the statement that produced a result
type StatementType uint8

const (
	StatementInvalid StatementType = iota
	StatementSelect
	StatementInsert
	StatementUpdate
	StatementDelete
	StatementCreate
	StatementDrop
	StatementAlter
	StatementCopy
	StatementExplain
	StatementPragma
	StatementPrepare
	StatementExecute
	StatementTransaction
	StatementSet
	StatementCall
	StatementExport
	StatementLoad
)

var statementNames = [...]string{
	StatementInvalid:     "INVALID",
	StatementSelect:      "SELECT",
	StatementInsert:      "INSERT",
	StatementUpdate:      "UPDATE",
	StatementDelete:      "DELETE",
	StatementCreate:      "CREATE",
	StatementDrop:        "DROP",
	StatementAlter:       "ALTER",
	StatementCopy:        "COPY",
	StatementExplain:     "EXPLAIN",
	StatementPragma:      "PRAGMA",
	StatementPrepare:     "PREPARE",
	StatementExecute:     "EXECUTE",
	StatementTransaction: "TRANSACTION",
	StatementSet:         "SET",
	StatementCall:        "CALL",
	StatementExport:      "EXPORT",
	StatementLoad:        "LOAD",
}

func (s StatementType) String() string {
	if int(s) < len(statementNames) {
		return statementNames[s]
	}
	return "StatementType(" + strconv.Itoa(int(s)) + ")"
}

// ParseStatementType maps a statement keyword to its type, StatementInvalid
// when unknown
func ParseStatementType(keyword string) StatementType {
	for i, name := range statementNames {
		if name == keyword {
			return StatementType(i)
		}
	}
	return StatementInvalid
}

// ReturnType is what a statement hands back to the client
type ReturnType uint8

const (
	ReturnQueryResult ReturnType = iota
	ReturnChangedRows
	ReturnNothing
)

func (r ReturnType) String() string {
	switch r {
	case ReturnQueryResult:
		return "QUERY_RESULT"
	case ReturnChangedRows:
		return "CHANGED_ROWS"
	default:
		return "NOTHING"
	}
}

// StatementProperties describe the statement that produced a result
type StatementProperties struct {
	ReadOnly                 bool
	RequiresValidTransaction bool
	AllowStreamResult        bool
	ReturnType               ReturnType
	ParameterCount           int
}

// ArrowOffsetSize selects 32 or 64 bit offsets for variable length arrow data
type ArrowOffsetSize uint8

const (
	ArrowOffsetRegular ArrowOffsetSize = iota
	ArrowOffsetLarge
)

// ClientProperties are display settings of the client that ran the query
type ClientProperties struct {
	TimeZone        string
	ArrowOffsetSize ArrowOffsetSize
}

// ResultType distinguishes buffered from streaming results
type ResultType uint8

const (
	ResultMaterialized ResultType = iota
	ResultStreaming
)

func (r ResultType) String() string {
	if r == ResultStreaming {
		return "STREAM_RESULT"
	}
	return "MATERIALIZED_RESULT"
}
