package export

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// perWorkerBytes is a rough working-set estimate for one encode worker.
const perWorkerBytes = 512 << 20

// encodeWorkers picks a worker count for the segment encode pool from the
// host's core count, capped so concurrent encoders fit in available memory.
func encodeWorkers() int {
	workers := runtime.NumCPU()
	if counts, err := cpu.Counts(false); err == nil && counts > 0 {
		workers = counts
	}

	if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
		if byMem := int(vm.Available / perWorkerBytes); byMem > 0 && byMem < workers {
			workers = byMem
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}
