// coefgen derives a cost coefficient table from a cost ledger and an
// inventory export without running the server, writing the same
// timestamped CSV artifact the web tool produces.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"holdcost/internal/coefficients"
	"holdcost/internal/costs"
	"holdcost/internal/dataload"
	"holdcost/internal/inventory"
	"holdcost/internal/validation"
)

func main() {
	costPath := flag.String("cost", "", "cost ledger xlsx file")
	invPath := flag.String("inventory", "", "inventory export xlsx file")
	outDir := flag.String("out", "data", "output directory for the coefficient artifact")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *costPath == "" || *invPath == "" {
		logger.Error("both -cost and -inventory are required")
		flag.Usage()
		os.Exit(2)
	}

	fv := validation.NewFileValidator(logger)
	for _, path := range []string{*costPath, *invPath} {
		if err := fv.ValidateInputFile(path); err != nil {
			logger.Error("input validation failed", "error", err)
			os.Exit(1)
		}
	}
	if err := fv.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("output validation failed", "error", err)
		os.Exit(1)
	}

	costFile, err := os.Open(*costPath)
	if err != nil {
		logger.Error("open cost file", "error", err)
		os.Exit(1)
	}
	defer costFile.Close()

	invFile, err := os.Open(*invPath)
	if err != nil {
		logger.Error("open inventory file", "error", err)
		os.Exit(1)
	}
	defer invFile.Close()

	costTable, err := dataload.LoadCostTable(costFile)
	if err != nil {
		logger.Error("load cost table", "error", err)
		os.Exit(1)
	}
	invTable, err := dataload.LoadInventoryTable(invFile)
	if err != nil {
		logger.Error("load inventory table", "error", err)
		os.Exit(1)
	}

	costTotals, err := costs.Annualize(costTable)
	if err != nil {
		logger.Error("annualize costs", "error", err)
		os.Exit(1)
	}
	invTotals := inventory.Aggregate(invTable, inventory.DeriveStripSuffix)

	table, err := coefficients.Derive(costTotals, invTotals)
	if err != nil {
		logger.Error("derive coefficients", "error", err)
		os.Exit(1)
	}

	artifact, err := coefficients.Save(table, *outDir, time.Now())
	if err != nil {
		logger.Error("save artifact", "error", err)
		os.Exit(1)
	}

	logger.Info("coefficients written",
		"artifact", artifact,
		"projects", len(table.Rows)-2,
	)
}
