package lisp

// VarArgSymbol indicates a variadic function argument in a builtin's list of
// formal arguments.
const VarArgSymbol = "&"

// Reserved words of the language.  The tokenizer never produces identifiers
// with these names.
const (
	KeywordDef    = "def"
	KeywordLambda = "lambda"
	KeywordIf     = "if"
	KeywordTrue   = "true"
	KeywordFalse  = "false"
)
