// Copyright 2025 The cclit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Conditional-compilation expressions (#if / #elif conditions), evaluated
// against the preprocessor's macro environment.
type (
	condExpr interface {
		// eval reports whether the expression evaluates to true for the given
		// environment. defined reports whether a macro name is defined at all
		// (including function-like macros, which have no integer value).
		eval(env Environment, defined func(string) bool) bool
	}

	// the defined(X) operator, checking if a macro identifier is defined
	condDefined struct {
		name string
	}

	// logical negation: !X
	condNot struct {
		x condExpr
	}

	// logical AND: X && Y
	condAnd struct {
		l, r condExpr
	}

	// logical OR: X || Y
	condOr struct {
		l, r condExpr
	}

	// comparison between two values, e.g. A == B, A < B
	condCompare struct {
		left  condExpr
		op    string
		right condExpr
	}
)

type (
	// condValue is a sub-interface of condExpr representing a resolvable value.
	// Resolving a macro that is not defined in the environment yields 0 with
	// defined=false, matching the C preprocessor.
	condValue interface {
		condExpr
		resolve(env Environment) (int, bool)
	}
	condIdent string
	condInt   int
)

func (e condIdent) resolve(env Environment) (int, bool) {
	v, defined := env[string(e)]
	return v, defined
}
func (e condInt) resolve(env Environment) (int, bool) { return int(e), true }

func (e condDefined) eval(env Environment, defined func(string) bool) bool {
	return defined(e.name)
}
func (e condNot) eval(env Environment, defined func(string) bool) bool {
	return !e.x.eval(env, defined)
}
func (e condAnd) eval(env Environment, defined func(string) bool) bool {
	return e.l.eval(env, defined) && e.r.eval(env, defined)
}
func (e condOr) eval(env Environment, defined func(string) bool) bool {
	return e.l.eval(env, defined) || e.r.eval(env, defined)
}
func (e condIdent) eval(env Environment, defined func(string) bool) bool {
	v, _ := e.resolve(env)
	return v != 0
}
func (e condInt) eval(env Environment, defined func(string) bool) bool { return e != 0 }

func (e condCompare) eval(env Environment, defined func(string) bool) bool {
	resolve := func(x condExpr) int {
		switch v := x.(type) {
		case condValue:
			value, _ := v.resolve(env)
			return value
		default:
			if x.eval(env, defined) {
				return 1
			}
			return 0
		}
	}
	lv, rv := resolve(e.left), resolve(e.right)
	switch e.op {
	case "==":
		return lv == rv
	case "!=":
		return lv != rv
	case "<":
		return lv < rv
	case "<=":
		return lv <= rv
	case ">":
		return lv > rv
	case ">=":
		return lv >= rv
	default:
		return false
	}
}

type (
	condParseRule struct {
		precedence   condPrecedence
		prefixParser condPrefixFn
		infixParser  condInfixFn
	}
	condPrefixFn   func(p *condParser, token string) (condExpr, error)
	condInfixFn    func(p *condParser, token string, left condExpr) (condExpr, error)
	condPrecedence int
)

const (
	precedenceLowest  condPrecedence = iota
	precedenceOr                     // ||
	precedenceAnd                    // &&
	precedenceCompare                // ==, !=, <, <=, >, >=
	precedenceBang                   // ! (prefix)
	precedenceParens                 // (
)

// condRules maps operator tokens to their precedence and parser functions.
// Initialized in init() to avoid cyclic reference errors at package init time.
var condRules map[string]condParseRule

func init() {
	condRules = map[string]condParseRule{
		"!":       {precedence: precedenceBang, prefixParser: parseCondBang},
		"(":       {precedence: precedenceParens, prefixParser: parseCondParenthesis},
		"defined": {precedence: precedenceLowest, prefixParser: parseCondDefined},
		"||":      {precedence: precedenceOr, infixParser: parseCondOr},
		"&&":      {precedence: precedenceAnd, infixParser: parseCondAnd},
		"==":      {precedence: precedenceCompare, infixParser: parseCondCompare},
		"!=":      {precedence: precedenceCompare, infixParser: parseCondCompare},
		">":       {precedence: precedenceCompare, infixParser: parseCondCompare},
		">=":      {precedence: precedenceCompare, infixParser: parseCondCompare},
		"<":       {precedence: precedenceCompare, infixParser: parseCondCompare},
		"<=":      {precedence: precedenceCompare, infixParser: parseCondCompare},
	}
}

// condParser implements Pratt parsing over the tokens of one directive line.
type condParser struct {
	tokensLeft []string
}

func parseCondTokens(tokens []string) (condExpr, error) {
	p := &condParser{tokensLeft: tokens}
	return p.parsePrecedence(precedenceLowest)
}

func (p *condParser) peek() (string, bool) {
	if len(p.tokensLeft) == 0 {
		return "", false
	}
	return p.tokensLeft[0], true
}

func (p *condParser) next() (string, error) {
	token, ok := p.peek()
	if !ok {
		return "", errors.New("unexpected end of condition")
	}
	p.tokensLeft = p.tokensLeft[1:]
	return token, nil
}

func (p *condParser) expectNext(expected string) error {
	token, err := p.next()
	if err != nil {
		return fmt.Errorf("expected %q but reached end of condition", expected)
	}
	if token != expected {
		return fmt.Errorf("expected %q but found %q", expected, token)
	}
	return nil
}

// parsePrecedence implements precedence climbing: minPrecedence controls
// operator binding.
func (p *condParser) parsePrecedence(minPrecedence condPrecedence) (condExpr, error) {
	token, err := p.next()
	if err != nil {
		return nil, err
	}

	prefix := parseCondValue
	if rule, exists := condRules[token]; exists && rule.prefixParser != nil {
		prefix = rule.prefixParser
	}
	result, err := prefix(p, token)
	if err != nil {
		return nil, err
	}

	for {
		token, ok := p.peek()
		if !ok {
			return result, nil // end of input
		}
		rule, exists := condRules[token]
		if !exists || rule.infixParser == nil || rule.precedence < minPrecedence {
			return result, nil // current operator binds less - stop and return
		}
		p.tokensLeft = p.tokensLeft[1:]
		result, err = rule.infixParser(p, token, result)
		if err != nil {
			return nil, err
		}
	}
}

func parseCondOr(p *condParser, _ string, lhs condExpr) (condExpr, error) {
	rhs, err := p.parsePrecedence(precedenceOr + 1)
	if err != nil {
		return nil, err
	}
	return condOr{lhs, rhs}, nil
}

func parseCondAnd(p *condParser, _ string, lhs condExpr) (condExpr, error) {
	rhs, err := p.parsePrecedence(precedenceAnd + 1)
	if err != nil {
		return nil, err
	}
	return condAnd{lhs, rhs}, nil
}

func parseCondCompare(p *condParser, op string, lhs condExpr) (condExpr, error) {
	rhs, err := p.parsePrecedence(precedenceCompare + 1)
	if err != nil {
		return nil, err
	}
	return condCompare{left: lhs, op: op, right: rhs}, nil
}

func parseCondBang(p *condParser, _ string) (condExpr, error) {
	inner, err := p.parsePrecedence(precedenceBang + 1)
	if err != nil {
		return nil, err
	}
	return condNot{inner}, nil
}

func parseCondParenthesis(p *condParser, _ string) (condExpr, error) {
	expr, err := p.parsePrecedence(precedenceLowest + 1)
	if err != nil {
		return nil, err
	}
	if err := p.expectNext(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseCondDefined parses the `defined` operator, with or without parentheses.
func parseCondDefined(p *condParser, _ string) (condExpr, error) {
	token, err := p.next()
	if err != nil {
		return nil, err
	}
	if token == "(" {
		name, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expectNext(")"); err != nil {
			return nil, err
		}
		return condDefined{name: name}, nil
	}
	return condDefined{name: token}, nil
}

// parseCondValue parses a token as an identifier or integer literal.
func parseCondValue(p *condParser, token string) (condExpr, error) {
	if ParsableIntegerRegex.MatchString(token) {
		if v, err := parseEnvIntLiteral(token); err == nil {
			return condInt(v), nil
		}
	}
	if MacroIdentifierRegex.MatchString(strings.TrimSpace(token)) {
		return condIdent(token), nil
	}
	return nil, fmt.Errorf("token %q is neither identifier nor integer literal", token)
}
