package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/runtime"
	"github.com/rowspace/tracedb/internal/stringpool"
	"github.com/rowspace/tracedb/internal/table"
)

// loadTable reads a trace cell file and builds an in-memory table.Table via
// the runtime builder (§4.9), exercising the same promotion/id-detection
// path a real ingest would. Nothing is written back to disk: the CLI's
// ingest is a one-shot load into memory, matching SPEC_FULL's persistence
// non-goal.
//
// File format: a header line of "name:TYPE" pairs separated by commas,
// followed by one data line per row with the same number of comma
// separated cells; an empty cell is NULL. Paths ending in ".xz" are
// transparently decompressed (mirrors core/capsule's use of xz for
// archive streaming).
func loadTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz decompress %s: %w", path, err)
		}
		r = xr
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%s: empty file, expected a header line", path)
	}
	names, types, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	pool := stringpool.New()
	b := runtime.NewBuilder(names, pool)

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		if len(cells) != len(names) {
			return nil, fmt.Errorf("%s:%d: expected %d cells, got %d", path, lineNo, len(names), len(cells))
		}
		for i, cell := range cells {
			if err := appendCell(b, i, types[i], cell); err != nil {
				return nil, fmt.Errorf("%s:%d: column %s: %w", path, lineNo, names[i], err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return b.Finalize(), nil
}

func parseHeader(line string) (names []string, types []column.Type, err error) {
	fields := strings.Split(line, ",")
	names = make([]string, len(fields))
	types = make([]column.Type, len(fields))
	for i, field := range fields {
		name, typeName, ok := strings.Cut(field, ":")
		if !ok {
			return nil, nil, fmt.Errorf("header field %q must be name:TYPE", field)
		}
		names[i] = name
		types[i] = column.ParseType(typeName)
	}
	return names, types, nil
}

func appendCell(b *runtime.Builder, colIdx int, typ column.Type, cell string) error {
	if cell == "" {
		b.AppendNull(colIdx)
		return nil
	}
	switch typ {
	case column.TypeDouble:
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return err
		}
		return b.AppendDouble(colIdx, v)
	case column.TypeText:
		return b.AppendString(colIdx, cell)
	default:
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return err
		}
		return b.AppendInt(colIdx, v)
	}
}

// IngestCmd loads a trace cell file and reports the schema it inferred.
type IngestCmd struct {
	Path string `arg:"" help:"Path to trace cell file (.xz accepted)" type:"existingfile"`
}

func (c *IngestCmd) Run() error {
	tbl, err := loadTable(c.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Ingested: %s\n", c.Path)
	fmt.Printf("  Rows: %d\n", tbl.RowCount)
	fmt.Printf("  Columns:\n")
	for _, col := range tbl.Columns {
		if col.Flags.Has(column.FlagHidden) {
			continue
		}
		fmt.Printf("    %-20s %-14s sorted=%-5v id=%-5v\n", col.Name, col.Type, col.Sorted, col.PlainID)
	}
	return nil
}
