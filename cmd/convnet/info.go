package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"

	"github.com/born-ml/convnet/internal/parallel"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show runtime and CPU details relevant to kernel fan-out",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			cfg := parallel.DefaultConfig()

			fmt.Fprintf(out, "convnet %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "CPUs:          %d\n", runtime.NumCPU())
			fmt.Fprintf(out, "Fan-out:       enabled=%t workers=%d min_chunk=%d\n",
				cfg.Enabled, cfg.NumWorkers, cfg.MinChunkSize)
			fmt.Fprintf(out, "CPU features:  %s\n", cpuFeatures())
		},
	}
}

// cpuFeatures lists the SIMD extensions detected for the running CPU.
func cpuFeatures() string {
	var feats []string
	add := func(ok bool, name string) {
		if ok {
			feats = append(feats, name)
		}
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFPHP, "fphp")
		add(cpu.ARM64.HasSVE, "sve")
	}

	if len(feats) == 0 {
		return "none detected"
	}
	return strings.Join(feats, " ")
}
