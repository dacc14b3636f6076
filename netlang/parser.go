package netlang

import (
	"fmt"

	"github.com/CPUlm/Netlist-Simulator-sub000/program"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
)

// Parse compiles netlist source text per the grammar of spec §6.1 into
// a program.Program. It resolves every identifier to the register
// declared for it in the VAR section, synthesizes a CONST-defined
// anonymous register for every literal constant argument, and reports
// a SyntaxError or program.UndefinedRegisterError as soon as one is
// met; errors recorded by program.Builder (such as
// instr.WidthMismatchError) and its structural checks (such as
// program.InputHasEquationError) are returned by Build once the
// source has been read.
func Parse(src string) (*program.Program, error) {
	p := &parser{lex: newLexer(src), names: make(map[string]register.Index), builder: program.NewBuilder()}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.parseProgram(); err != nil {
		return nil, err
	}
	return p.builder.Build()
}

type parser struct {
	lex     *lexer
	tok     Token
	names   map[string]register.Index
	builder *program.Builder
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind Kind) (Token, error) {
	if p.tok.Kind != kind {
		return Token{}, SyntaxError{Line: p.tok.Line, Col: p.tok.Col, Message: fmt.Sprintf("expected %s, found %s %q", kind, p.tok.Kind, p.tok.Text)}
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (p *parser) parseIdentList() ([]string, error) {
	var names []string
	for p.tok.Kind == Ident {
		names = append(names, p.tok.Text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind == Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return names, nil
}

func (p *parser) parseProgram() error {
	if _, err := p.expect(KwInput); err != nil {
		return err
	}
	inputs, err := p.parseIdentList()
	if err != nil {
		return err
	}
	if _, err := p.expect(KwOutput); err != nil {
		return err
	}
	outputs, err := p.parseIdentList()
	if err != nil {
		return err
	}
	if _, err := p.expect(KwVar); err != nil {
		return err
	}

	inputSet := make(map[string]bool, len(inputs))
	for _, n := range inputs {
		inputSet[n] = true
	}
	outputSet := make(map[string]bool, len(outputs))
	for _, n := range outputs {
		outputSet[n] = true
	}

	if err := p.parseVarDecls(inputSet, outputSet); err != nil {
		return err
	}
	for _, n := range inputs {
		if _, ok := p.names[n]; !ok {
			return program.UndefinedRegisterError{}
		}
	}
	for _, n := range outputs {
		if _, ok := p.names[n]; !ok {
			return program.UndefinedRegisterError{}
		}
	}

	if _, err := p.expect(KwIn); err != nil {
		return err
	}
	for p.tok.Kind == Ident {
		if err := p.parseEquation(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseVarDecls(inputSet, outputSet map[string]bool) error {
	for p.tok.Kind == Ident {
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return err
		}
		width := 1
		if p.tok.Kind == Colon {
			if err := p.advance(); err != nil {
				return err
			}
			tok, err := p.expect(Number)
			if err != nil {
				return err
			}
			width, err = parseBareInteger(tok)
			if err != nil {
				return err
			}
		}
		var flags register.Flag
		if inputSet[name] {
			flags |= register.Input
		}
		if outputSet[name] {
			flags |= register.Output
		}
		idx := p.builder.AddRegister(width, name, flags)
		p.names[name] = idx

		if p.tok.Kind == Comma {
			if err := p.advance(); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveArgument parses an "argument": either an identifier
// reference or a constant literal, the latter materialized as an
// anonymous CONST-defined register.
func (p *parser) resolveArgument() (register.Index, error) {
	switch p.tok.Kind {
	case Ident:
		name := p.tok.Text
		idx, ok := p.names[name]
		if !ok {
			return -1, program.UndefinedRegisterError{}
		}
		if err := p.advance(); err != nil {
			return -1, err
		}
		return idx, nil
	case Number:
		tok := p.tok
		value, width, err := parseConstantLiteral(tok)
		if err != nil {
			return -1, err
		}
		if err := p.advance(); err != nil {
			return -1, err
		}
		idx := p.builder.AddRegister(width, "", 0)
		p.builder.AddConst(idx, value)
		return idx, nil
	default:
		return -1, SyntaxError{Line: p.tok.Line, Col: p.tok.Col, Message: fmt.Sprintf("expected argument, found %s %q", p.tok.Kind, p.tok.Text)}
	}
}

func (p *parser) resolveIdent() (register.Index, error) {
	tok, err := p.expect(Ident)
	if err != nil {
		return -1, err
	}
	idx, ok := p.names[tok.Text]
	if !ok {
		return -1, program.UndefinedRegisterError{}
	}
	return idx, nil
}

func (p *parser) parseInteger() (int, error) {
	tok, err := p.expect(Number)
	if err != nil {
		return 0, err
	}
	return parseBareInteger(tok)
}

func (p *parser) parseEquation() error {
	out, err := p.resolveIdent()
	if err != nil {
		return err
	}
	if _, err := p.expect(Equal); err != nil {
		return err
	}
	return p.parseExpression(out)
}

func (p *parser) parseExpression(out register.Index) error {
	switch p.tok.Kind {
	case KwNot:
		if err := p.advance(); err != nil {
			return err
		}
		a, err := p.resolveArgument()
		if err != nil {
			return err
		}
		p.builder.AddNot(out, a)
		return nil
	case KwAnd, KwNand, KwOr, KwNor, KwXor, KwXnor:
		op := p.tok.Kind
		if err := p.advance(); err != nil {
			return err
		}
		lhs, err := p.resolveArgument()
		if err != nil {
			return err
		}
		rhs, err := p.resolveArgument()
		if err != nil {
			return err
		}
		switch op {
		case KwAnd:
			p.builder.AddAnd(out, lhs, rhs)
		case KwNand:
			p.builder.AddNand(out, lhs, rhs)
		case KwOr:
			p.builder.AddOr(out, lhs, rhs)
		case KwNor:
			p.builder.AddNor(out, lhs, rhs)
		case KwXor:
			p.builder.AddXor(out, lhs, rhs)
		case KwXnor:
			p.builder.AddXnor(out, lhs, rhs)
		}
		return nil
	case KwMux:
		if err := p.advance(); err != nil {
			return err
		}
		sel, err := p.resolveArgument()
		if err != nil {
			return err
		}
		a, err := p.resolveArgument()
		if err != nil {
			return err
		}
		b, err := p.resolveArgument()
		if err != nil {
			return err
		}
		p.builder.AddMux(out, sel, a, b)
		return nil
	case KwReg:
		if err := p.advance(); err != nil {
			return err
		}
		in, err := p.resolveIdent()
		if err != nil {
			return err
		}
		p.builder.AddReg(out, in)
		return nil
	case KwConcat:
		if err := p.advance(); err != nil {
			return err
		}
		lhs, err := p.resolveArgument()
		if err != nil {
			return err
		}
		rhs, err := p.resolveArgument()
		if err != nil {
			return err
		}
		p.builder.AddConcat(out, lhs, rhs)
		return nil
	case KwSelect:
		if err := p.advance(); err != nil {
			return err
		}
		i, err := p.parseInteger()
		if err != nil {
			return err
		}
		a, err := p.resolveArgument()
		if err != nil {
			return err
		}
		p.builder.AddSelect(out, i, a)
		return nil
	case KwSlice:
		if err := p.advance(); err != nil {
			return err
		}
		first, err := p.parseInteger()
		if err != nil {
			return err
		}
		last, err := p.parseInteger()
		if err != nil {
			return err
		}
		a, err := p.resolveArgument()
		if err != nil {
			return err
		}
		p.builder.AddSlice(out, first, last, a)
		return nil
	case KwRom:
		if err := p.advance(); err != nil {
			return err
		}
		addrW, err := p.parseInteger()
		if err != nil {
			return err
		}
		wordW, err := p.parseInteger()
		if err != nil {
			return err
		}
		readAddr, err := p.resolveArgument()
		if err != nil {
			return err
		}
		p.builder.AddRom(out, addrW, wordW, readAddr)
		return nil
	case KwRam:
		if err := p.advance(); err != nil {
			return err
		}
		addrW, err := p.parseInteger()
		if err != nil {
			return err
		}
		wordW, err := p.parseInteger()
		if err != nil {
			return err
		}
		readAddr, err := p.resolveArgument()
		if err != nil {
			return err
		}
		we, err := p.resolveArgument()
		if err != nil {
			return err
		}
		wa, err := p.resolveArgument()
		if err != nil {
			return err
		}
		wd, err := p.resolveArgument()
		if err != nil {
			return err
		}
		p.builder.AddRam(out, addrW, wordW, readAddr, we, wa, wd)
		return nil
	case Ident, Number:
		// Bare argument: load (identifier) or constant assignment.
		a, err := p.resolveArgument()
		if err != nil {
			return err
		}
		p.builder.AddLoad(out, a)
		return nil
	default:
		return SyntaxError{Line: p.tok.Line, Col: p.tok.Col, Message: fmt.Sprintf("expected expression, found %s %q", p.tok.Kind, p.tok.Text)}
	}
}
