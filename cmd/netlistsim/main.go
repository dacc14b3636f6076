// Command netlistsim is the CLI driver over the netlang/program/sim
// stack: it parses a netlist source file, schedules it, and either
// dumps its structure (--dep-graph, --schedule) or simulates it,
// prompting for INPUT values interactively unless run with --fast.
// Grounded on the original project's CommandLineParser/main.cpp
// action dispatch (simulate / dot-export / print / schedule) and on
// the teacher's flag+log.Fatalf CLI idiom (disassemble/disassemble.go,
// vcs/vcs_main.go).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/CPUlm/Netlist-Simulator-sub000/depgraph"
	"github.com/CPUlm/Netlist-Simulator-sub000/disasm"
	"github.com/CPUlm/Netlist-Simulator-sub000/dotgraph"
	"github.com/CPUlm/Netlist-Simulator-sub000/memblock"
	"github.com/CPUlm/Netlist-Simulator-sub000/memimage"
	"github.com/CPUlm/Netlist-Simulator-sub000/netlang"
	"github.com/CPUlm/Netlist-Simulator-sub000/program"
	"github.com/CPUlm/Netlist-Simulator-sub000/register"
	"github.com/CPUlm/Netlist-Simulator-sub000/sim"
)

const version = "netlistsim, version 0.1.0"

var (
	help       bool
	showVer    bool
	cycles     int
	syntaxOnly bool
	depGraphF  bool
	scheduleF  bool
	timeit     bool
	fast       bool
)

func init() {
	flag.BoolVar(&help, "h", false, "print help and exit 0")
	flag.BoolVar(&help, "help", false, "print help and exit 0")
	flag.BoolVar(&showVer, "v", false, "print version and exit 0")
	flag.BoolVar(&showVer, "version", false, "print version and exit 0")
	flag.IntVar(&cycles, "n", 0, "simulate N cycles (0 = loop until interrupt)")
	flag.IntVar(&cycles, "cycles", 0, "simulate N cycles (0 = loop until interrupt)")
	flag.BoolVar(&syntaxOnly, "syntax-only", false, "parse and type-check only")
	flag.BoolVar(&depGraphF, "dep-graph", false, "emit DOT of the dependency graph and exit")
	flag.BoolVar(&scheduleF, "schedule", false, "emit scheduled disassembly and exit")
	flag.BoolVar(&timeit, "timeit", false, "report per-cycle elapsed time")
	flag.BoolVar(&fast, "fast", false, "use batched simulation loop (no per-cycle prompts)")
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [options] input_file [memimage_file...]\n\noptions:\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}
	if showVer {
		fmt.Println(version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		log.Fatalf("missing input_file")
	}
	inputFile := args[0]
	memFiles := args[1:]

	src, err := os.ReadFile(inputFile)
	if err != nil {
		log.Fatalf("cannot read %s: %v", inputFile, err)
	}

	prog, err := netlang.Parse(string(src))
	if err != nil {
		log.Fatalf("%v", err)
	}

	if syntaxOnly {
		fmt.Println("syntax OK")
		return
	}

	if err := depgraph.Schedule(prog); err != nil {
		log.Fatalf("%v", err)
	}

	if depGraphF {
		if err := dotgraph.Write(os.Stdout, prog); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if scheduleF {
		if err := disasm.Disassemble(os.Stdout, prog); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	s := sim.New(prog)
	if err := loadMemoryImages(s, prog, memFiles); err != nil {
		log.Fatalf("%v", err)
	}
	if err := s.CheckROMsLoaded(); err != nil {
		log.Fatalf("%v", err)
	}

	run(s, prog, cycles, !fast, timeit)
}

// loadMemoryImages matches each file in files positionally to the
// program's memory blocks in declaration order - the same convention
// InputManager uses for the trailing arguments after the netlist file.
func loadMemoryImages(s *sim.Simulator, prog *program.Program, files []string) error {
	n := len(files)
	if prog.MemoryBlocks.Len() < n {
		n = prog.MemoryBlocks.Len()
	}
	for i := 0; i < n; i++ {
		blk := prog.MemoryBlocks.Get(memblock.Index(i))
		f, err := os.Open(files[i])
		if err != nil {
			return err
		}
		words, err := memimage.Parse(f, blk.Size(), blk.WordWidth)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", files[i], err)
		}
		if err := s.LoadImage(register.Index(blk.Output), words); err != nil {
			return err
		}
	}
	for i := n; i < prog.MemoryBlocks.Len(); i++ {
		blk := prog.MemoryBlocks.Get(memblock.Index(i))
		if blk.Kind == memblock.RAM {
			log.Printf("warning: no image for RAM %q, defaulting to zeros", prog.Registers.DisplayName(register.Index(blk.Output)))
		}
	}
	return nil
}

// run drives the cycle loop: interactive mode prompts stdin for every
// INPUT register's value before each cycle and prints OUTPUT values
// after every cycle, matching main.cpp's verbose simulate path; fast
// mode runs silently and prints outputs only once at the end. Either
// mode stops early and prints the last completed state on SIGINT/SIGTERM,
// the same "interrupted gives you what you have" behavior as the
// original's ExitProgramNow.
func run(s *sim.Simulator, prog *program.Program, n int, interactive, timeit bool) {
	inputs := registersWithFlag(prog, func(r register.Register) bool { return r.IsInput() })

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Split(bufio.ScanWords)

	cycleID := 0
	for n == 0 || cycleID < n {
		select {
		case <-sigCh:
			fmt.Println()
			printOutputs(s, prog)
			return
		default:
		}

		if interactive {
			for _, idx := range inputs {
				reg := prog.Registers.Get(idx)
				v, ok := readInputValue(scanner, prog.Registers.DisplayName(idx), reg.Width)
				if !ok {
					printOutputs(s, prog)
					return
				}
				s.SetInput(idx, v)
			}
		}

		start := time.Now()
		if err := s.Cycle(); err != nil {
			log.Fatalf("%v", err)
		}
		cycleID++
		if timeit {
			fmt.Printf("cycle %d: %s\n", cycleID, time.Since(start))
		}
		if interactive {
			printOutputs(s, prog)
		}
	}
	if !interactive {
		printOutputs(s, prog)
	}
}

func registersWithFlag(prog *program.Program, pred func(register.Register) bool) []register.Index {
	var out []register.Index
	for _, idx := range prog.Registers.Indices() {
		if pred(prog.Registers.Get(idx)) {
			out = append(out, idx)
		}
	}
	return out
}

func printOutputs(s *sim.Simulator, prog *program.Program) {
	for _, idx := range prog.Registers.Indices() {
		reg := prog.Registers.Get(idx)
		if !reg.IsOutput() {
			continue
		}
		fmt.Printf("=> %s = %0*b\n", prog.Registers.DisplayName(idx), reg.Width, s.Value(idx))
	}
}

// readInputValue prompts stdin for a value of the given bit width,
// re-prompting on a malformed or over-wide token, and reports ok=false
// if stdin is closed (a signal-less EOF, treated the same as an
// interrupt). The literal grammar mirrors InputManager::get_input_value:
// a "0b"/"0d"/"0x" prefix picks the base, otherwise the token is read
// as binary digits.
func readInputValue(scanner *bufio.Scanner, name string, width int) (uint64, bool) {
	for {
		fmt.Printf("Value of %q (bus size: %d): ", name, width)
		if !scanner.Scan() {
			return 0, false
		}
		tok := scanner.Text()

		base, body := 2, tok
		if len(tok) > 1 && tok[0] == '0' {
			switch tok[1] {
			case 'b':
				base, body = 2, tok[2:]
			case 'd':
				base, body = 10, tok[2:]
			case 'x':
				base, body = 16, tok[2:]
			}
		}

		v, err := strconv.ParseUint(body, base, 64)
		if err != nil {
			fmt.Println("Wrong formatted constant.")
			continue
		}
		if width < 64 && v >= (uint64(1)<<uint(width)) {
			fmt.Printf("Constant %q is too large for this bus size (%d).\n", tok, width)
			continue
		}
		return v, true
	}
}
