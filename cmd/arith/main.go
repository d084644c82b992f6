package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/arithcoding/arith"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
)

var (
	precision  = flag.Int("precision", arith.DefaultPrecision, "decimal digits carried through the interval arithmetic; longer inputs need more")
	verbose    = flag.Bool("verbose", false, "verbosity")
	cpuprofile = flag.Bool("cpuprofile", false, "write a CPU profile to the current directory")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] compress|decompress input output\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	mode, input, output := flag.Arg(0), flag.Arg(1), flag.Arg(2)
	if mode == "" || input == "" || output == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *cpuprofile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	if err := run(mode, input, output, *precision); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(mode, input, output string, precision int) error {
	// The record is built in memory so that a failed run leaves no output file.
	buf := bytes.NewBuffer(nil)
	start := time.Now()
	switch mode {
	case "compress":
		if err := arith.Compress(buf, input, precision); err != nil {
			return err
		}
	case "decompress":
		f, err := os.Open(input)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer f.Close()
		if err := arith.Decompress(buf, f, precision); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown mode %q", mode)
	}
	log.Debugf("%s %s: %d bytes in %v", mode, input, buf.Len(), time.Since(start))

	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
