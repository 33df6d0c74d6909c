package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Rayerdyne/FG/fourier"
)

// ReadCoefficients parses a coefficient list.
func ReadCoefficients(r io.Reader) (*fourier.CoeffSet, error) {
	var pos, neg []complex128
	err := scanLines(r, func(lineno int, line string) error {
		p, n, found := strings.Cut(line, "&")
		if !found {
			return fmt.Errorf("%w: line %d: missing '&' in %q", ErrSyntax, lineno, line)
		}
		pre, pim, err := parsePair(p)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrSyntax, lineno, err)
		}
		nre, nim, err := parsePair(n)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrSyntax, lineno, err)
		}
		pos = append(pos, complex(pre, pim))
		neg = append(neg, complex(nre, nim))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("%w: no coefficients", ErrSyntax)
	}
	tracer().Infof("read %d harmonics", len(pos))
	return fourier.NewCoeffSet(pos, neg)
}

// WriteCoefficients writes a coefficient set in the format read by
// ReadCoefficients. Numbers are written with the fewest digits which read
// back to the identical value.
func WriteCoefficients(w io.Writer, cs *fourier.CoeffSet) error {
	bw := bufio.NewWriter(w)
	pos, neg := cs.Harmonics()
	for k := range pos {
		if _, err := fmt.Fprintf(bw, "%s & %s\n", formatComplex(pos[k]),
			formatComplex(neg[k])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatComplex(c complex128) string {
	return "(" + formatFloat(real(c)) + "," + formatFloat(imag(c)) + ")"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
