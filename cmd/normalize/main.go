// Command normalize converts a JSON file of raw backend records into view-models.
//
//	normalize -entity transfers -in pickings.json -out transfers.json -pretty
//
// The input is a JSON array of records, or {"quants": [...], "products": [...]}
// for -entity valuation. Records that are not objects are listed under "errors"
// and do not fail the run.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"stockview/internal/domain/normalizer"
	"stockview/internal/infrastructure/http/v1/dto"
	"stockview/pkg/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "normalize: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	entity := fs.String("entity", "", "entity to normalize: "+entityNames())
	in := fs.String("in", "-", "input file, - for stdin")
	out := fs.String("out", "-", "output file, - for stdout")
	pretty := fs.Bool("pretty", false, "indent output")
	verbose := fs.Bool("v", false, "log rejected records to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *entity == "" {
		return fmt.Errorf("-entity is required (%s)", entityNames())
	}

	log := logger.Nop()
	if *verbose {
		if l, err := logger.New(logger.Config{Level: "debug", Development: true, OutputPaths: []string{"stderr"}}); err == nil {
			log = l
		}
	}

	data, err := readInput(*in, stdin)
	if err != nil {
		return err
	}

	result, rejected, err := normalize(normalizer.Entity(*entity), data)
	if err != nil {
		return err
	}
	for _, re := range rejected {
		log.Warnw("record rejected", "entity", *entity, "index", re.Index, "source", re.Source, "message", re.Message)
	}

	return writeOutput(*out, stdout, result, *pretty)
}

func normalize(entity normalizer.Entity, data []byte) (any, []normalizer.RecordError, error) {
	if entity == normalizer.EntityValuation {
		req, err := dto.DecodeValuationRequest(data)
		if err != nil {
			return nil, nil, fmt.Errorf("decode valuation input: %w", err)
		}
		res := normalizer.NormalizeValuation(req.Quants, req.Products)
		return res, res.Errors, nil
	}

	raws, err := dto.DecodeRecords(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decode input: %w", err)
	}
	res, err := normalizer.NormalizeList(entity, raws)
	if err != nil {
		return nil, nil, err
	}
	return res, res.Errors, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(path string, stdout io.Writer, v any, pretty bool) error {
	w := stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func entityNames() string {
	names := []string{}
	for _, e := range normalizer.Entities() {
		names = append(names, string(e))
	}
	names = append(names, string(normalizer.EntityValuation))
	return strings.Join(names, ", ")
}
