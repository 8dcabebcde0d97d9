package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry"
	"github.com/quarrydb/quarry/execution"
	"github.com/quarrydb/quarry/tuple"
)

var (
	joinLeftField  int
	joinRightField int
	joinOp         string
	joinLimit      int
	joinHeader     bool
)

var joinCmd = &cobra.Command{
	Use:   "join <left.csv> <right.csv>",
	Short: "Nested-loop join two CSV files",
	Long: `Load two CSV files into in-memory tables and stream their
nested-loop join to stdout. Columns whose values all parse as integers are
typed int; everything else is typed string.

Examples:
  quarry join users.csv orders.csv --left-field 0 --right-field 1
  quarry join a.csv b.csv --op ">=" --header --limit 50`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJoin(cmd, args[0], args[1])
	},
}

func init() {
	joinCmd.Flags().IntVar(&joinLeftField, "left-field", 0, "join field index in the left file")
	joinCmd.Flags().IntVar(&joinRightField, "right-field", 0, "join field index in the right file")
	joinCmd.Flags().StringVar(&joinOp, "op", "=", "comparison operator (=, !=, <, <=, >, >=)")
	joinCmd.Flags().IntVar(&joinLimit, "limit", 0, "cap the number of output rows (0 = config output_limit)")
	joinCmd.Flags().BoolVar(&joinHeader, "header", false, "treat the first line of each file as column names")
}

func runJoin(cmd *cobra.Command, leftPath, rightPath string) error {
	engine, err := quarry.New(cfg)
	if err != nil {
		return err
	}

	if err := loadCSVTable(engine, "left", leftPath); err != nil {
		return err
	}
	if err := loadCSVTable(engine, "right", rightPath); err != nil {
		return err
	}

	op, err := quarry.ParseCompareOp(joinOp)
	if err != nil {
		return err
	}

	txn := engine.Begin()
	defer txn.ReleaseAll()

	join, err := engine.Join(txn, "left", "right", joinLeftField, joinRightField, op)
	if err != nil {
		return err
	}

	leftName, err := join.LeftFieldName()
	if err != nil {
		return err
	}
	rightName, err := join.RightFieldName()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "join on %s %s %s\n", leftName, op, rightName)

	var root execution.Iterator = join
	limit := joinLimit
	if limit == 0 {
		limit = cfg.OutputLimit
	}
	if limit > 0 {
		root = execution.NewLimit(limit, root)
	}

	count, err := printRows(cmd, root)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d rows\n", count)
	return nil
}

func printRows(cmd *cobra.Command, root execution.Iterator) (int, error) {
	rows, err := quarry.Collect(root)
	if err != nil {
		return 0, err
	}
	w := csv.NewWriter(cmd.OutOrStdout())
	for _, row := range rows {
		record := make([]string, row.NumFields())
		for i := 0; i < row.NumFields(); i++ {
			v, err := row.Field(i)
			if err != nil {
				return 0, err
			}
			record[i] = v.String()
		}
		if err := w.Write(record); err != nil {
			return 0, err
		}
	}
	w.Flush()
	return len(rows), w.Error()
}

// loadCSVTable reads a CSV file into a new table. Column types are inferred:
// a column is int only if every value in it parses as an integer.
func loadCSVTable(engine *quarry.Engine, tableName, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return err
	}

	var header []string
	if joinHeader && len(records) > 0 {
		header = records[0]
		records = records[1:]
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: no data rows", path)
	}

	numCols := len(records[0])
	isInt := make([]bool, numCols)
	for i := range isInt {
		isInt[i] = true
	}
	for _, rec := range records {
		if len(rec) != numCols {
			return fmt.Errorf("%s: ragged row (got %d columns, want %d)", path, len(rec), numCols)
		}
		for i, cell := range rec {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt[i] = false
			}
		}
	}

	fields := make([]tuple.Field, numCols)
	for i := range fields {
		name := fmt.Sprintf("c%d", i)
		if header != nil && i < len(header) {
			name = header[i]
		}
		typ := tuple.StringType
		if isInt[i] {
			typ = tuple.IntType
		}
		fields[i] = tuple.Field{Name: name, Type: typ}
	}

	if _, err := engine.CreateTable(tableName, tuple.NewSchema(fields...)); err != nil {
		return err
	}
	for _, rec := range records {
		values := make([]tuple.Value, numCols)
		for i, cell := range rec {
			if isInt[i] {
				n, _ := strconv.ParseInt(cell, 10, 64)
				values[i] = tuple.NewIntValue(n)
			} else {
				values[i] = tuple.NewStringValue(cell)
			}
		}
		if err := engine.Insert(nil, tableName, tuple.NewRow(values...)); err != nil {
			return err
		}
	}
	return nil
}
