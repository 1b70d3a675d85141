package scanner

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func strScanner(s string) *Scanner {
	return NewScanner(strings.NewReader(s))
}

func assertRead(t *testing.T, s *Scanner, xb byte, xerr error) {
	b, err := s.Read()
	if b != xb {
		t.Fatalf("Read: expected b = %q, got %q", xb, b)
	}
	if err != xerr {
		t.Fatalf("Read: expected err = %s, got %s", xerr, err)
	}
}

func assertPeek(t *testing.T, s *Scanner, xb byte, xerr error) {
	b, err := s.Peek()
	if b != xb {
		t.Fatalf("Peek: expected b = %q, got %q", xb, b)
	}
	if err != xerr {
		t.Fatalf("Peek: expected err = %s, got %s", xerr, err)
	}
}

func assertCurrentPos(t *testing.T, s *Scanner, line, col int) {
	pos := s.CurrentPos()
	if pos.Line != line || pos.Col != col {
		t.Fatalf("CurrentPos: expected (%d, %d) got (%d, %d)", line, col, pos.Line, pos.Col)
	}
}

func assertStartToken(t *testing.T, s *Scanner, line, col int) {
	pos := s.StartToken()
	if pos.Line != line || pos.Col != col {
		t.Fatalf("StartToken: expected (%d, %d) got (%d, %d)", line, col, pos.Line, pos.Col)
	}
}

func assertEndToken(t *testing.T, s *Scanner, tokStr string) {
	tok := s.EndToken()
	if string(tok) != tokStr {
		t.Fatalf("EndToken: expected %q got %q", tokStr, tok)
	}
}

func assertReadLine(t *testing.T, s *Scanner, line string) {
	t.Helper()
	b, err := s.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: unexpected error %s", err)
	}
	if string(b) != line {
		t.Fatalf("ReadLine: expected %q, got %q", line, b)
	}
}

func assertNoMoreLines(t *testing.T, s *Scanner) {
	t.Helper()
	b, err := s.ReadLine()
	if err != io.EOF {
		t.Fatalf("ReadLine: expected io.EOF, got %q, %v", b, err)
	}
}

func TestSimple(t *testing.T) {
	scanner := strScanner("bonjour")
	assertRead(t, scanner, 'b', nil)
	assertRead(t, scanner, 'o', nil)
	assertCurrentPos(t, scanner, 0, 2)
	assertPeek(t, scanner, 'n', nil)
	assertCurrentPos(t, scanner, 0, 2)
	assertRead(t, scanner, 'n', nil)
	assertCurrentPos(t, scanner, 0, 3)
	scanner.Back()
	assertCurrentPos(t, scanner, 0, 2)
	assertRead(t, scanner, 'n', nil)
	assertCurrentPos(t, scanner, 0, 3)

	assertStartToken(t, scanner, 0, 3)
	assertRead(t, scanner, 'j', nil)
	assertRead(t, scanner, 'o', nil)
	assertRead(t, scanner, 'u', nil)
	assertRead(t, scanner, 'r', nil)
	assertCurrentPos(t, scanner, 0, 7)
	assertRead(t, scanner, EOF, nil)
	scanner.Back()
	assertRead(t, scanner, EOF, nil)
	assertCurrentPos(t, scanner, 0, 7)
	assertEndToken(t, scanner, "jour")
}

func TestLargeInput(t *testing.T) {
	const line = "A very long string.\n"
	scanner := NewScannerSize(strings.NewReader(strings.Repeat(line, 100)), 16)
	lc := 0
	// Check we get the correct bytes after the buffer is refilled.
	var acc []byte
	for lc < 10 {
		b, err := scanner.Read()
		if err != nil {
			t.Fatal("unexpected error")
		}
		acc = append(acc, b)
		if b == '\n' {
			lc++
		}
	}
	if string(acc) != strings.Repeat(line, 10) {
		t.Fatalf("incorrect input")
	}
	// Check tokens get put together correctly and everything is cleaned up
	// after each token is returned
	for i := 1; i <= 3; i++ {
		assertStartToken(t, scanner, 10*i, 0)
		lc = 0
		for lc < 10 {
			b, err := scanner.Read()
			if err != nil {
				t.Fatal("unexpected error")
			}
			acc = append(acc, b)
			if b == '\n' {
				lc++
			}
		}
		assertEndToken(t, scanner, strings.Repeat(line, 10))
	}
}

func TestUTF8Columns(t *testing.T) {
	scanner := strScanner("a–b")
	assertRead(t, scanner, 'a', nil)
	for i := 0; i < 3; i++ {
		scanner.Read()
	}
	assertCurrentPos(t, scanner, 0, 2)
	assertRead(t, scanner, 'b', nil)
	assertCurrentPos(t, scanner, 0, 3)
}

func TestReadLine(t *testing.T) {
	scanner := strScanner("Alpha - 1\nBeta – 2\r\n\rlast")
	assertReadLine(t, scanner, "Alpha - 1")
	assertReadLine(t, scanner, "Beta – 2")
	assertReadLine(t, scanner, "")
	assertReadLine(t, scanner, "last")
	assertCurrentPos(t, scanner, 3, 4)
	assertNoMoreLines(t, scanner)
	assertNoMoreLines(t, scanner)
}

func TestReadLineTrailingNewline(t *testing.T) {
	scanner := strScanner("one\n\n")
	assertReadLine(t, scanner, "one")
	assertReadLine(t, scanner, "")
	assertNoMoreLines(t, scanner)
}

func TestReadLineEmptyInput(t *testing.T) {
	assertNoMoreLines(t, strScanner(""))
}

func TestReadLineLongLines(t *testing.T) {
	long := strings.Repeat("key - value ", 20)
	scanner := NewScannerSize(strings.NewReader(long+"\r\n"+long), 16)
	assertReadLine(t, scanner, long)
	assertReadLine(t, scanner, long)
	assertNoMoreLines(t, scanner)
}

func TestReadLineFFBytes(t *testing.T) {
	scanner := strScanner("A - 1\n\xffB - 2\nx\xffy\n\xff")
	assertReadLine(t, scanner, "A - 1")
	assertReadLine(t, scanner, "\xffB - 2")
	assertReadLine(t, scanner, "x\xffy")
	assertReadLine(t, scanner, "\xff")
	assertNoMoreLines(t, scanner)
}

func TestAtEOF(t *testing.T) {
	scanner := strScanner("\xff")
	if scanner.AtEOF() {
		t.Fatal("AtEOF: expected false before reading")
	}
	assertRead(t, scanner, 0xFF, nil)
	if !scanner.AtEOF() {
		t.Fatal("AtEOF: expected true after reading all input")
	}
	if !strScanner("").AtEOF() {
		t.Fatal("AtEOF: expected true on empty input")
	}
}

type failingReader struct{}

var errBroken = errors.New("broken reader")

func (failingReader) Read([]byte) (int, error) {
	return 0, errBroken
}

func TestReadLineError(t *testing.T) {
	scanner := NewScanner(failingReader{})
	if _, err := scanner.ReadLine(); err != errBroken {
		t.Fatalf("ReadLine: expected %s, got %v", errBroken, err)
	}
}
