package jsonurl

import (
	eng "github.com/jsonurl/jsonurl-go/internal/engine"
)

type parseState uint8

const (
	stateParen parseState = iota + 1
	stateInArray
	stateArrayAfterElement
	stateObjectHaveKey
	stateInObject
	stateObjectAfterElement
)

// Parse parses JSON->URL text. A nil opt selects DefaultParseOptions.
//
// Empty text yields the implied seed when one is configured and the undefined
// Value otherwise. Grammar violations return a *SyntaxError and exceeded
// limits a *LimitError.
func Parse(text string, opt *ParseOptions) (Value, error) {
	return ParseRange(text, 0, len(text), opt)
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(b []byte, opt *ParseOptions) (Value, error) {
	return Parse(string(b), opt)
}

// ParseRange parses text[start:end]. Error offsets are relative to text.
func ParseRange(text string, start, end int, opt *ParseOptions) (Value, error) {
	if start < 0 || end > len(text) || start > end {
		return Value{}, syntaxErr(CodeExpectedValue, start)
	}
	r := opt.resolve()
	p := &parser{
		opt:  &r,
		d:    newDialect(text[:end], r.AQF),
		pos:  start,
		end:  end,
		skip: r.WWWFormURLEncoded && r.implied(),
	}
	return p.parse()
}

// ParseLiteral parses text as a single literal. forceString parses it the way
// an object key is parsed, so true and 1 come back as strings.
func ParseLiteral(text string, forceString bool, opt *ParseOptions) (Value, error) {
	r := opt.resolve()
	p := &parser{opt: &r, d: newDialect(text, r.AQF), end: len(text)}
	lvEnd, err := p.d.findLiteralEnd(0, p.end)
	if err != nil {
		return Value{}, err
	}
	if lvEnd != p.end {
		return Value{}, syntaxErr(CodeExpectedLiteral, 0)
	}
	return p.parseLiteral(0, p.end, forceString)
}

type parser struct {
	opt  *ParseOptions
	d    dialect
	st   *eng.Stacks[parseState, Value]
	pos  int
	end  int
	skip bool // skip redundant & in implied form mode
}

func (p *parser) parse() (Value, error) {
	if p.pos == p.end {
		return p.seed(), nil
	}
	if p.end-p.pos > p.opt.MaxParseChars {
		return Value{}, &LimitError{Code: CodeMaxChars, Offset: p.pos + p.opt.MaxParseChars}
	}
	limits := eng.Limits{MaxDepth: p.opt.MaxParseDepth, MaxValues: p.opt.MaxParseValues}

	switch {
	case p.opt.ImpliedObject != nil:
		p.st = eng.New[parseState, Value](stateInObject, limits)
		p.st.Push(ObjectValue(p.opt.ImpliedObject))
	case p.opt.ImpliedArray != nil:
		p.st = eng.New[parseState, Value](stateInArray, limits)
		p.st.Push(ArrayValue(p.opt.ImpliedArray))
	default:
		c, next, err := p.d.decodeOrdinal(p.pos)
		if err != nil {
			return Value{}, err
		}
		if c != '(' {
			// not a composite; the whole text must be one literal
			lvEnd, err := p.d.findLiteralEnd(p.pos, p.end)
			if err != nil {
				return Value{}, err
			}
			if lvEnd != p.end {
				return Value{}, syntaxErr(CodeExpectedLiteral, p.pos)
			}
			return p.parseLiteral(p.pos, p.end, false)
		}
		p.st = eng.New[parseState, Value](stateParen, limits)
		p.pos = next
	}

	if p.skip {
		for p.pos < p.end {
			c, next, err := p.d.decodeOrdinal(p.pos)
			if err != nil || c != '&' {
				break
			}
			p.pos = next
		}
		if p.pos == p.end {
			return p.seed(), nil
		}
	}

	v, err := p.run()
	return v, fromEngine(err)
}

func (p *parser) run() (Value, error) {
	st := p.st
	for {
		if p.pos == p.end {
			return Value{}, syntaxErr(CodeStillOpen, p.pos)
		}
		c, next, err := p.d.decodeOrdinal(p.pos)
		if err != nil {
			return Value{}, err
		}

		switch st.State() {
		case stateParen:
			switch c {
			case '(':
				// a composite as the first member can only be an array
				if err := st.AppendValue(p.pos, ArrayValue(NewArray())); err != nil {
					return Value{}, err
				}
				if err := st.ReplaceAndPush(p.pos, stateArrayAfterElement, stateParen); err != nil {
					return Value{}, err
				}
				p.pos = next
				continue
			case ')':
				p.pos = next
				if v, done, err := p.closeEmpty(p.opt.newEmptyValue()); done {
					return v, err
				}
				continue
			case ':':
				if p.opt.NoEmptyComposite && next < p.end {
					if c2, after, err := p.d.decodeOrdinal(next); err == nil && c2 == ')' {
						p.pos = after
						if v, done, err := p.closeEmpty(ObjectValue(NewObject())); done {
							return v, err
						}
						continue
					}
				}
			}

			// One token of lookahead: the character after the first
			// literal decides between array and object.
			lvEnd, err := p.d.findLiteralEnd(p.pos, p.end)
			if err != nil {
				return Value{}, err
			}
			if lvEnd == p.end {
				return Value{}, syntaxErr(CodeStillOpen, p.end)
			}
			if err := st.CountValue(p.pos); err != nil {
				return Value{}, err
			}
			c, next, err = p.d.decodeOrdinal(lvEnd)
			if err != nil {
				return Value{}, err
			}
			isKey := c == ':' || (c == '=' && p.formSeparator())
			lv, err := p.parseLiteral(p.pos, lvEnd, isKey)
			if err != nil {
				return Value{}, err
			}
			p.pos = lvEnd

			switch c {
			case '&', ',':
				if c == '&' && !p.formSeparator() {
					return Value{}, syntaxErr(CodeUnexpectedCharacter, p.pos)
				}
				st.Replace(stateArrayAfterElement)
				if err := st.AppendValue(p.pos, ArrayValue(NewArray())); err != nil {
					return Value{}, err
				}
				st.Push(lv)
				continue
			case ')':
				p.pos = next
				if err := st.AppendValue(p.pos, ArrayOf(lv)); err != nil {
					return Value{}, err
				}
				depth := st.Pop()
				if depth == -1 {
					if p.pos == p.end {
						return st.Bottom(), nil
					}
					return Value{}, syntaxErr(CodeExtraChars, p.pos)
				}
				if v, done, err := p.afterClose(depth, CodeStillOpen); done {
					return v, err
				}
				continue
			case '=', ':':
				if c == '=' && !p.formSeparator() {
					return Value{}, syntaxErr(CodeUnexpectedCharacter, p.pos)
				}
				st.Replace(stateObjectHaveKey)
				st.Push(ObjectValue(NewObject()), lv)
				p.pos = next
				continue
			}
			return Value{}, syntaxErr(CodeExpectedLiteral, p.pos)

		case stateInArray:
			if c == '(' {
				if err := st.ReplaceAndPush(p.pos, stateArrayAfterElement, stateParen); err != nil {
					return Value{}, err
				}
				p.pos = next
				continue
			}
			lv, lvEnd, err := p.scanValue()
			if err != nil {
				return Value{}, err
			}
			p.pos = p.skipAmps(lvEnd)
			if p.pos == p.end {
				if st.Depth() == 0 && p.opt.ImpliedArray != nil {
					p.opt.ImpliedArray.Append(lv)
					return ArrayValue(p.opt.ImpliedArray), nil
				}
				return Value{}, syntaxErr(CodeStillOpen, p.end)
			}
			st.Replace(stateArrayAfterElement)
			st.Push(lv)

		case stateArrayAfterElement:
			p.popArrayValue()
			switch c {
			case '&', ',':
				if c == '&' && !p.formSeparator() {
					return Value{}, syntaxErr(CodeUnexpectedCharacter, p.pos)
				}
				st.Replace(stateInArray)
				p.pos = next
				continue
			case ')':
				p.pos = next
				if v, done, err := p.closeComposite(CodeStillOpen); done {
					return v, err
				}
				continue
			}
			return Value{}, syntaxErr(CodeExpectedMoreArray, p.pos)

		case stateObjectHaveKey:
			if c == '(' {
				if err := st.ReplaceAndPush(p.pos, stateObjectAfterElement, stateParen); err != nil {
					return Value{}, err
				}
				p.pos = next
				continue
			}
			lv, lvEnd, err := p.scanValue()
			if err != nil {
				return Value{}, err
			}
			p.pos = p.skipAmps(lvEnd)
			if p.pos == p.end {
				if st.Depth() == 0 && p.opt.ImpliedObject != nil {
					p.st.Push(lv)
					p.popObjectValue()
					return ObjectValue(p.opt.ImpliedObject), nil
				}
				return Value{}, syntaxErr(CodeStillOpen, p.end)
			}
			st.Replace(stateObjectAfterElement)
			st.Push(lv)

		case stateObjectAfterElement:
			p.popObjectValue()
			switch c {
			case '&', ',':
				if c == '&' && !p.formSeparator() {
					return Value{}, syntaxErr(CodeUnexpectedCharacter, p.pos)
				}
				st.Replace(stateInObject)
				p.pos = next
				continue
			case ')':
				p.pos = next
				if v, done, err := p.closeComposite(CodeExtraChars); done {
					return v, err
				}
				continue
			}
			return Value{}, syntaxErr(CodeExpectedStructChar, p.pos)

		case stateInObject:
			lvEnd, err := p.d.findLiteralEnd(p.pos, p.end)
			if err != nil {
				return Value{}, err
			}
			key, err := p.parseLiteral(p.pos, lvEnd, true)
			if err != nil {
				return Value{}, err
			}
			p.pos = p.skipAmps(lvEnd)
			topImplied := p.opt.ImpliedObject != nil && st.Depth() == 0

			if p.pos == p.end {
				if !topImplied {
					return Value{}, syntaxErr(CodeStillOpen, p.end)
				}
				mv, err := p.opt.GetMissingValue(key.AsString(), p.pos)
				if err != nil {
					return Value{}, err
				}
				st.Push(key, mv)
				p.popObjectValue()
				return ObjectValue(p.opt.ImpliedObject), nil
			}

			c, next, err := p.d.decodeOrdinal(p.pos)
			if err != nil {
				return Value{}, err
			}
			switch c {
			case '=', ':':
				if c == '=' && !p.formSeparator() {
					return Value{}, syntaxErr(CodeUnexpectedCharacter, p.pos)
				}
				st.Replace(stateObjectHaveKey)
				st.Push(key)
				p.pos = next
				continue
			case '&', ',':
				if c == '&' && !p.formSeparator() {
					return Value{}, syntaxErr(CodeUnexpectedCharacter, p.pos)
				}
				if topImplied {
					// a key with no value
					mv, err := p.opt.GetMissingValue(key.AsString(), p.pos)
					if err != nil {
						return Value{}, err
					}
					st.Replace(stateObjectAfterElement)
					st.Push(key, mv)
					continue
				}
			}
			return Value{}, syntaxErr(CodeExpectedObjectValue, p.pos)

		default:
			panic("jsonurl: unknown parse state")
		}
	}
}

// scanValue scans and parses one literal in value position.
func (p *parser) scanValue() (Value, int, error) {
	lvEnd, err := p.d.findLiteralEnd(p.pos, p.end)
	if err != nil {
		return Value{}, 0, err
	}
	if err := p.st.CountValue(p.pos); err != nil {
		return Value{}, 0, err
	}
	lv, err := p.parseLiteral(p.pos, lvEnd, false)
	if err != nil {
		return Value{}, 0, err
	}
	return lv, lvEnd, nil
}

// formSeparator reports whether & and = are structural at the current depth.
func (p *parser) formSeparator() bool {
	return p.opt.WWWFormURLEncoded && p.st.Depth() == 0
}

// closeEmpty finishes a composite closed right after its open paren.
func (p *parser) closeEmpty(empty Value) (Value, bool, error) {
	depth := p.st.Pop()
	if depth == -1 {
		if p.pos == p.end {
			return empty, true, nil
		}
		return Value{}, true, syntaxErr(CodeExtraChars, p.pos)
	}
	if err := p.st.AppendValue(p.pos, empty); err != nil {
		return Value{}, true, err
	}
	return p.afterClose(depth, CodeStillOpen)
}

// closeComposite finishes a composite whose members are already in place.
func (p *parser) closeComposite(code string) (Value, bool, error) {
	depth := p.st.Pop()
	if depth == -1 {
		if p.pos == p.end && !p.opt.implied() {
			return p.st.Bottom(), true, nil
		}
		return Value{}, true, syntaxErr(CodeExtraChars, p.pos)
	}
	return p.afterClose(depth, code)
}

// afterClose handles the end of text once a nested composite has closed back
// to depth 0, which completes an implied root.
func (p *parser) afterClose(depth int, code string) (Value, bool, error) {
	if depth != 0 {
		return Value{}, false, nil
	}
	p.pos = p.skipAmps(p.pos)
	if p.pos != p.end {
		return Value{}, false, nil
	}
	switch {
	case p.opt.ImpliedArray != nil:
		p.popArrayValue()
		return ArrayValue(p.opt.ImpliedArray), true, nil
	case p.opt.ImpliedObject != nil:
		p.popObjectValue()
		return ObjectValue(p.opt.ImpliedObject), true, nil
	}
	return Value{}, true, syntaxErr(code, p.pos)
}

// skipAmps moves past a run of & in implied form mode, stopping on the last
// one so the caller still sees a separator. A trailing run is skipped whole.
func (p *parser) skipAmps(pos int) int {
	if !p.skip {
		return pos
	}
	last := -1
	for pos < p.end {
		c, next, err := p.d.decodeOrdinal(pos)
		if err != nil || c != '&' {
			break
		}
		last = pos
		pos = next
	}
	if last < 0 || pos == p.end {
		return pos
	}
	return last
}

func (p *parser) popArrayValue() {
	v := p.st.PopValue()
	p.st.Peek().Array().Append(v)
}

func (p *parser) popObjectValue() {
	v := p.st.PopValue()
	k := p.st.PopValue()
	p.st.Peek().Object().Set(k.AsString(), v)
}

func (p *parser) seed() Value {
	switch {
	case p.opt.ImpliedObject != nil:
		return ObjectValue(p.opt.ImpliedObject)
	case p.opt.ImpliedArray != nil:
		return ArrayValue(p.opt.ImpliedArray)
	}
	return Value{}
}

// parseLiteral parses the literal in [pos, end). forceString is set in key
// position.
func (p *parser) parseLiteral(pos, end int, forceString bool) (Value, error) {
	if end <= pos {
		emptyOK := p.opt.AllowEmptyUnquotedValues
		if forceString {
			emptyOK = p.opt.AllowEmptyUnquotedKeys
		}
		if emptyOK {
			return String(""), nil
		}
		return Value{}, syntaxErr(CodeImpliedStringEmpty, pos)
	}
	if p.opt.ImpliedStringLiterals {
		s, err := p.d.parseStringLiteral(pos, end, true)
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	}

	text, plain, err := p.d.literalText(pos, end)
	if err != nil {
		return Value{}, err
	}
	if plain {
		switch text {
		case "true", "false":
			if forceString {
				return String(text), nil
			}
			return Bool(text == "true"), nil
		case "null":
			switch {
			case forceString:
				return String(text), nil
			case p.opt.CoerceNullToEmptyString:
				return String(""), nil
			}
			return p.opt.newNullValue(), nil
		}
		if isNumberText(text) {
			if forceString {
				return String(text), nil
			}
			return Number(text), nil
		}
	}

	s, err := p.d.parseStringLiteral(pos, end, false)
	if err != nil {
		return Value{}, err
	}
	return String(s), nil
}
