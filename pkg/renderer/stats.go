package renderer

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/mem"

	"github.com/df07/go-progressive-photonmapper/pkg/integrator"
)

// PassStats contains statistics about one photon pass
type PassStats struct {
	Pass           int
	PhotonsStored  int   // Photons in this pass's index
	PhotonsEmitted int64 // Light paths launched this pass
	TotalEmitted   int64 // Light paths launched since the render began
	CappedBatches  int   // Batches stopped by the path cap

	integrator.GatherStats

	TraceTime  time.Duration // Light path tracing
	BuildTime  time.Duration // Merging batches and building the index
	GatherTime time.Duration // Density estimation over all records
	Duration   time.Duration // Whole pass

	AverageLuminance float64 // Mean luminance of the film after the pass
	MemUsedPercent   float64 // System memory in use after the pass, 0 when unavailable
}

// memUsedPercent samples system memory usage
func memUsedPercent() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.UsedPercent
}

// FormatPassStats renders pass statistics as a table
func FormatPassStats(stats []PassStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Stored", "Emitted", "Records", "Updated", "Found", "Trace", "Build", "Gather", "Mem"})

	var total time.Duration
	var found int64
	for _, s := range stats {
		table.Append([]string{
			fmt.Sprintf("%d", s.Pass),
			fmt.Sprintf("%d", s.PhotonsStored),
			fmt.Sprintf("%d", s.PhotonsEmitted),
			fmt.Sprintf("%d", s.Records),
			fmt.Sprintf("%d", s.Updated),
			fmt.Sprintf("%d", s.Photons),
			s.TraceTime.Round(time.Microsecond).String(),
			s.BuildTime.Round(time.Microsecond).String(),
			s.GatherTime.Round(time.Microsecond).String(),
			fmt.Sprintf("%02.1f %%", s.MemUsedPercent),
		})
		total += s.Duration
		found += s.Photons
	}

	var emitted int64
	if len(stats) > 0 {
		emitted = stats[len(stats)-1].TotalEmitted
	}
	table.SetFooter([]string{"", "", fmt.Sprintf("%d", emitted), "", "", fmt.Sprintf("%d", found), "", "TOTAL", total.Round(time.Millisecond).String(), ""})

	table.Render()
	return buf.String()
}

// CalculateAverageLuminance computes the mean Rec. 709 luminance of an image in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 65535.0
		}
	}

	return total / float64(bounds.Dx()*bounds.Dy())
}
