// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/ismaelsadeeq/bitcoind-long-term-estimates-analysis/fees"
	"github.com/ismaelsadeeq/bitcoind-long-term-estimates-analysis/judge"
)

func main() {
	if err := mainErr(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func mainErr() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	log.Infof("%s version %s (Go version %s)", appName, Version, runtime.Version())
	log.Infof("Judging estimates from %q against blocks from %q", cfg.FeesPath, cfg.BlocksPath)

	estimates, blocks := fees.Load(cfg.FeesPath, cfg.BlocksPath, loadLog)

	maxHeight, found := fees.MaxBlockHeight(blocks)
	if !found {
		return errors.New("no block percentile data loaded, nothing to judge against")
	}

	judged := judge.Trim(estimates, maxHeight)
	log.Infof("Loaded %d estimates and %d blocks up to height %d, %d estimates are old enough to judge",
		len(estimates), len(blocks), maxHeight, len(judged))
	if len(judged) == 0 {
		return errors.New("no estimates with a fully observed confirmation window")
	}

	conservative, economic := judge.Run(judged, blocks)
	judge.WriteReport(os.Stdout, judged, conservative, economic)
	return nil
}
