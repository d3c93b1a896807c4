package dashboard

import (
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/qepting91/tweet-miner/internal/domain"
	"github.com/qepting91/tweet-miner/internal/enrich"
	"github.com/qepting91/tweet-miner/internal/storage"
)

// topHashtags is how many hashtags the bar chart shows.
const topHashtags = 15

// neutralBand is the polarity range counted as neutral.
const neutralBand = 0.05

// Handler renders the charts for the output file at dataFile on every request.
func Handler(dataFile string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		records, err := storage.ReadRecords(dataFile)
		if err != nil {
			logger.Error("Failed to load records", "file", dataFile, "err", err)
			http.Error(w, "could not read "+dataFile, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		for _, c := range []interface{ Render(w io.Writer) error }{
			sentimentPie(records),
			hashtagBar(records),
			polarityLine(records),
		} {
			if err := c.Render(w); err != nil {
				logger.Error("Render failed", "err", err)
				return
			}
		}
	})
	return mux
}

func StartServer(dataFile string, port string, logger *slog.Logger) error {
	return http.ListenAndServe(":"+port, Handler(dataFile, logger))
}

// Class buckets a polarity into positive, neutral or negative.
func Class(polarity float64) string {
	switch {
	case polarity > neutralBand:
		return "positive"
	case polarity < -neutralBand:
		return "negative"
	default:
		return "neutral"
	}
}

func sentimentPie(records []domain.Record) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Sentiment Split"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	counts := make(map[string]int)
	for _, r := range records {
		counts[Class(r.Polarity)]++
	}
	var items []opts.PieData
	for _, k := range []string{"positive", "neutral", "negative"} {
		items = append(items, opts.PieData{Name: k, Value: counts[k]})
	}
	pie.AddSeries("Posts", items)
	return pie
}

// TagCount is one hashtag and how often it was used.
type TagCount struct {
	Tag   string
	Count int
}

// TopHashtags ranks hashtags by use, ignoring the None placeholder.
func TopHashtags(records []domain.Record, n int) []TagCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Hashtag != "" && r.Hashtag != enrich.None {
			counts[r.Hashtag]++
		}
	}
	ranked := make([]TagCount, 0, len(counts))
	for k, v := range counts {
		ranked = append(ranked, TagCount{Tag: k, Count: v})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Tag < ranked[j].Tag
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func hashtagBar(records []domain.Record) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top Hashtags"}))

	var barX []string
	var barY []opts.BarData
	for _, tc := range TopHashtags(records, topHashtags) {
		barX = append(barX, "#"+tc.Tag)
		barY = append(barY, opts.BarData{Value: tc.Count})
	}
	bar.SetXAxis(barX).AddSeries("Mentions", barY)
	return bar
}

// DailyPolarity averages polarity per UTC day, oldest first.
func DailyPolarity(records []domain.Record) (days []string, means []float64) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		d := r.Created.UTC().Format("2006-01-02")
		sums[d] += r.Polarity
		counts[d]++
	}
	for d := range sums {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		means = append(means, sums[d]/float64(counts[d]))
	}
	return days, means
}

func polarityLine(records []domain.Record) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Mean Polarity per Day"}))

	days, means := DailyPolarity(records)
	items := make([]opts.LineData, 0, len(means))
	for _, m := range means {
		items = append(items, opts.LineData{Value: m})
	}
	line.SetXAxis(days).AddSeries("Polarity", items)
	return line
}
