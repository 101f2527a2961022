package standard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arctechlabs/iris/framework"
)

// NewCalculatorTool evaluates a basic arithmetic expression.
func NewCalculatorTool() framework.Tool {
	return framework.NewTool(
		"calculate",
		"Evaluates an arithmetic expression with +, -, *, /, parentheses and decimal numbers.",
		framework.ObjectSchema(map[string]framework.Property{
			"expression": {Type: "string", Description: "Expression to evaluate, e.g. (2 + 3) * 4."},
		}, "expression"),
		func(_ context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			expr, _ := args["expression"].(string)
			value, err := evalExpression(expr)
			if err != nil {
				return &framework.ToolResult{Error: "Invalid expression: " + err.Error()}, nil
			}
			if math.IsInf(value, 0) || math.IsNaN(value) {
				return &framework.ToolResult{Error: "Invalid expression: result is not a finite number."}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data:    map[string]interface{}{"result": value},
			}, nil
		})
}

type exprParser struct {
	tokens []string
	pos    int
}

func evalExpression(input string) (float64, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("expression is empty")
	}
	p := &exprParser{tokens: tokens}
	value, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, fmt.Errorf("unexpected token %q", p.tokens[p.pos])
	}
	return value, nil
}

func tokenize(input string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case strings.ContainsRune("+-*/()", rune(c)):
			tokens = append(tokens, string(c))
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			tokens = append(tokens, input[start:i])
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	return tokens, nil
}

func (p *exprParser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.tokens) && (p.tokens[p.pos] == "+" || p.tokens[p.pos] == "-") {
		op := p.tokens[p.pos]
		p.pos++
		right, err := p.parseProduct()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *exprParser) parseProduct() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.tokens) && (p.tokens[p.pos] == "*" || p.tokens[p.pos] == "/") {
		op := p.tokens[p.pos]
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.pos < len(p.tokens) && p.tokens[p.pos] == "-" {
		p.pos++
		value, err := p.parseUnary()
		return -value, err
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (float64, error) {
	if p.pos >= len(p.tokens) {
		return 0, fmt.Errorf("expression ends unexpectedly")
	}
	token := p.tokens[p.pos]
	if token == "(" {
		p.pos++
		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos] != ")" {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", token)
	}
	p.pos++
	return value, nil
}
