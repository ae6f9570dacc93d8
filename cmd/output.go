package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/powerteam/internal/adapters/backend"
	"github.com/okian/powerteam/internal/adapters/repository"
	service "github.com/okian/powerteam/internal/app"
	"github.com/okian/powerteam/internal/domain/model"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const dateLayout = "2006-01-02"

// reportInfo is the listing row for an uploaded weekly report.
type reportInfo struct {
	ID         string    `json:"id" yaml:"id"`
	WeekStart  time.Time `json:"weekStart" yaml:"week_start"`
	WeekEnd    time.Time `json:"weekEnd" yaml:"week_end"`
	UploadedAt time.Time `json:"uploadedAt" yaml:"uploaded_at"`
	Members    int       `json:"members,omitempty" yaml:"members,omitempty"`
}

func storeReports(in []repository.WeeklyReport) []reportInfo {
	out := make([]reportInfo, len(in))
	for i, r := range in {
		out[i] = reportInfo{ID: r.ID, WeekStart: r.WeekStart, WeekEnd: r.WeekEnd, UploadedAt: r.UploadedAt, Members: len(r.Rows)}
	}
	return out
}

func backendReports(in []backend.ReportSummary) []reportInfo {
	out := make([]reportInfo, len(in))
	for i, r := range in {
		out[i] = reportInfo{ID: r.ID, WeekStart: r.WeekStart, WeekEnd: r.WeekEnd, UploadedAt: r.UploadedAt}
	}
	return out
}

func render(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", formatText:
		return renderText(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch x := v.(type) {
	case model.ScoreBreakdown:
		writeBreakdown(tw, x)
	case service.Totals:
		fmt.Fprintln(tw, "CATEGORY\tCOUNT\tPOINTS")
		c := x.Counters
		rows := []struct {
			name   string
			count  string
			points float64
		}{
			{model.ComponentAttendance, fmt.Sprintf("P%d S%d A%d M%d L%d", c.Present, c.Substitute, c.Absent, c.Medical, c.Late), x.Breakdown.Attendance},
			{model.ComponentVisitors, strconv.Itoa(c.Visitors), x.Breakdown.Visitors},
			{model.ComponentReferrals, fmt.Sprintf("RGI%d RGO%d RRI%d RRO%d", c.ReferralsGivenInside, c.ReferralsGivenOutside, c.ReferralsReceivedInside, c.ReferralsReceivedOutside), x.Breakdown.Referrals},
			{model.ComponentConversion, strconv.Itoa(c.Conversions), x.Breakdown.Conversion},
			{model.ComponentOneToOne, strconv.Itoa(c.OneToOneMeetings), x.Breakdown.OneToOne},
			{model.ComponentClosedBusiness, num(c.ClosedBusinessAmount), x.Breakdown.ClosedBusiness},
			{model.ComponentTraining, strconv.Itoa(c.TrainingSessions), x.Breakdown.Training},
			{model.ComponentTestimonials, strconv.Itoa(c.Testimonials), x.Breakdown.Testimonials},
		}
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.name, r.count, num(r.points))
		}
		fmt.Fprintf(tw, "Total\t\t%s\n", num(x.Breakdown.Total))
	case []service.Standing:
		fmt.Fprintln(tw, "RANK\tNAME\tTEAM\tCAPTAIN\tATT\tVIS\tREF\tCON\t1:1\tTYFCB\tCEU\tT\tTOTAL")
		for _, s := range x {
			b := s.Breakdown
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Rank, s.Name, dash(s.Team), dash(s.Captain),
				num(b.Attendance), num(b.Visitors), num(b.Referrals), num(b.Conversion),
				num(b.OneToOne), num(b.ClosedBusiness), num(b.Training), num(b.Testimonials),
				num(s.Total))
		}
	case []service.TrendPoint:
		fmt.Fprintln(tw, "PERIOD\tTEAM\tPOINTS")
		for _, p := range x {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Period, p.Team, num(p.Points))
		}
	case []reportInfo:
		fmt.Fprintln(tw, "ID\tWEEK START\tWEEK END\tUPLOADED\tMEMBERS")
		for _, r := range x {
			members := "-"
			if r.Members > 0 {
				members = strconv.Itoa(r.Members)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID,
				r.WeekStart.Format(dateLayout), r.WeekEnd.Format(dateLayout),
				r.UploadedAt.Format(time.RFC3339), members)
		}
	default:
		return fmt.Errorf("no text layout for %T", v)
	}
	return tw.Flush()
}

func writeBreakdown(w io.Writer, b model.ScoreBreakdown) {
	fmt.Fprintln(w, "COMPONENT\tPOINTS")
	for _, c := range b.Components() {
		fmt.Fprintf(w, "%s\t%s\n", c.Name, num(c.Points))
	}
	fmt.Fprintf(w, "Total\t%s\n", num(b.Total))
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
