package track

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Header is the exact CSV column line; downstream spreadsheets key on it.
const Header = "Frame,Time (s),X,Y"

// WriteCSV serializes samples in their collection order. Output is
// deterministic: the same sample set always yields identical bytes.
// Timestamps carry exactly four decimal places; fields are never quoted.
func WriteCSV(w io.Writer, samples []Sample) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}
	for _, s := range samples {
		if _, err := fmt.Fprintf(bw, "%d,%.4f,%d,%d\n", s.Frame, s.Time, s.X, s.Y); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveCSV writes the complete sample set to path in one shot. An empty
// sample set still produces a file with the header line.
func SaveCSV(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
