package gate

import (
	"fmt"
	"strconv"
	"strings"
)

var numberWords = map[string]string{
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"ten": "10",
}

var operatorWords = map[string]string{
	"plus": "+", "add": "+",
	"minus": "-", "subtract": "-",
	"times": "*", "multiply": "*", "multiplied": "*", "mult": "*",
	"divide": "/", "divided": "/", "over": "/",
	"mod": "%", "modulo": "%",
}

// fillerWords are allowed around an arithmetic expression without
// disqualifying the prompt as a math question ("what is 2 plus 2?").
var fillerWords = map[string]bool{
	"what": true, "whats": true, "is": true, "by": true, "the": true,
	"how": true, "much": true, "calculate": true, "compute": true,
	"equals": true, "equal": true, "to": true, "please": true, "result": true,
}

const mathChars = "0123456789+-*/%(). "

func isMathToken(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(mathChars, r) {
			return false
		}
	}
	return true
}

// ExtractMathExpression converts a short natural-language arithmetic prompt
// ("what is two plus 2?") into an expression string. ok is false when the
// prompt is not recognizably arithmetic; any unexpected word disqualifies it
// so that ordinary questions containing numbers fall through to the pipeline.
func ExtractMathExpression(prompt string) (string, bool) {
	cleaned := strings.ToLower(prompt)
	cleaned = strings.NewReplacer("?", " ", "!", " ", ",", " ", "=", " ").Replace(cleaned)
	fields := strings.Fields(cleaned)
	if len(fields) == 0 || len(fields) > 12 {
		return "", false
	}

	var tokens []string
	operators := 0
	numbers := 0
	for _, f := range fields {
		switch {
		case numberWords[f] != "":
			tokens = append(tokens, numberWords[f])
			numbers++
		case operatorWords[f] != "":
			tokens = append(tokens, operatorWords[f])
			operators++
		case fillerWords[f]:
			// skip
		case isMathToken(f):
			tokens = append(tokens, f)
			for _, r := range f {
				if r >= '0' && r <= '9' {
					numbers++
				}
				if strings.ContainsRune("+-*/%", r) {
					operators++
				}
			}
		default:
			return "", false
		}
	}

	if operators == 0 || numbers < 2 {
		return "", false
	}
	return strings.Join(tokens, " "), true
}

// EvaluateMathExpression evaluates an arithmetic expression with the usual
// precedence rules over + - * / % and parentheses.
func EvaluateMathExpression(expr string) (float64, error) {
	p := &exprParser{input: expr}
	v, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character at position %d", p.pos)
	}
	return v, nil
}

// FormatMathResult renders a result without trailing zeros ("4", "2.5").
func FormatMathResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseSum() (float64, error) {
	v, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.parseProduct()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseProduct() (float64, error) {
	v, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v /= rhs
		case '%':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			v = float64(int64(v) % int64(rhs))
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case c == '-':
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	case c >= '0' && c <= '9', c == '.':
		start := p.pos
		for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
		}
		return v, nil
	default:
		return 0, fmt.Errorf("unexpected character %q", string(c))
	}
}
