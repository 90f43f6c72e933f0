// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"IP":     "0",
}

// link is a jump offset to fill in once all labels are known.
type link struct {
	Index int    // Opcode index.
	Label string // Target label.
}

// Assembler is a single pass assembler for assembunny programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to instruction positions.
	Equate    map[string]string // Map of equates.

	links []link
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// operand returns the register or immediate a word represents.
func (asm *Assembler) operand(word string) (arg Operand, err error) {
	reg, ok := ParseRegister(word)
	if ok {
		arg = MakeReg(reg)
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		err = ErrParseValue(word)
		return
	}

	arg = MakeImm(value)
	return
}

// register returns the register a word represents.
func (asm *Assembler) register(word string) (arg Operand, err error) {
	reg, ok := ParseRegister(word)
	if !ok {
		err = ErrRegisterInvalid
		return
	}

	arg = MakeReg(reg)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine parses a single line into the words of an instruction.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number and position.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)
	asm.Equate["IP"] = fmt.Sprintf("%v", len(asm.Opcode))

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		_, is_reg := ParseRegister(label)
		if len(label) == 0 || is_reg {
			err = ErrLabelInvalid
			return
		}

		asm.Label[label] = len(asm.Opcode)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n, word := range words {
		// Check for equate
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.links = asm.links[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for _, ln := range asm.links {
		op := &asm.Opcode[ln.Index]
		ip, ok := asm.Label[ln.Label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(ln.Label)
			return
		}
		op.Code.Y = MakeImm(int64(ip - ln.Index))
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// isLabel returns true if word can name a label.
var isLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`).MatchString

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	var code Code
	var label string

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	if len(args) < op.Args() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Args() {
		err = ErrOpcodeExtraArgs
		return
	}

	var x, y Operand
	switch op {
	case OP_CPY:
		x, err = asm.operand(args[0])
		if err != nil {
			return
		}
		y, err = asm.register(args[1])
		if err != nil {
			return
		}
		code = MakeCodeCpy(x, y)
	case OP_INC, OP_DEC:
		x, err = asm.register(args[0])
		if err != nil {
			return
		}
		code = Code{Op: op, X: x}
	case OP_JNZ:
		x, err = asm.operand(args[0])
		if err != nil {
			return
		}
		y, err = asm.operand(args[1])
		if err != nil {
			if !isLabel(args[1]) {
				return
			}
			err = nil
			label = args[1]
		}
		code = MakeCodeJnz(x, y)
	case OP_TGL, OP_OUT:
		x, err = asm.operand(args[0])
		if err != nil {
			return
		}
		code = Code{Op: op, X: x}
	}

	if len(label) != 0 {
		asm.links = append(asm.links, link{Index: len(asm.Opcode), Label: label})
	}

	asm.Opcode = append(asm.Opcode, Opcode{LineNo: lineno, Words: words, Code: code})

	return
}

// opMap maps opcode names.
var opMap = map[string]Op{
	OP_CPY.String(): OP_CPY,
	OP_INC.String(): OP_INC,
	OP_DEC.String(): OP_DEC,
	OP_JNZ.String(): OP_JNZ,
	OP_TGL.String(): OP_TGL,
	OP_OUT.String(): OP_OUT,
}
