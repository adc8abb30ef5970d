package ast

type (
	Node interface {
		node()
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()
	}

	// Base is a byte range in the source text. Zero for synthetic nodes.
	Base struct {
		Pos int
		End int
	}

	CompUnit struct {
		Base `tlog:",embed"`

		Func *FuncDef
	}

	FuncDef struct {
		Base `tlog:",embed"`

		Name string
		Type FuncType
		Body *Block
	}

	FuncType struct {
		Base `tlog:",embed"`

		Ret string
	}

	Block struct {
		Base `tlog:",embed"`

		Stmts []Stmt
	}

	Return struct {
		Base `tlog:",embed"`

		X Expr
	}

	Number struct {
		Base `tlog:",embed"`

		Value int64
	}

	Unary struct {
		Base `tlog:",embed"`

		Op string
		X  Expr
	}

	Binary struct {
		Base `tlog:",embed"`

		Op   string
		L, R Expr
	}
)

func (Base) node() {}

func (Return) stmt() {}

func (Number) expr() {}
func (Unary) expr()  {}
func (Binary) expr() {}
