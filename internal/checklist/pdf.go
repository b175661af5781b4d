package checklist

import (
	"bytes"
	"fmt"
	"math"

	"randomweapon/internal/catalog"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	lineH     = 13.0
	boxSize   = 8.0
	fontSize  = 9
	titleSize = 16
	stageSize = 11
)

// PDF renders the sheet on parchment-coloured A4 pages.
func PDF(sh Sheet) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	newPage := func() float64 {
		pdf.AddPage()
		pdf.SetFillColor(245, 235, 210)
		pdf.Rect(0, 0, pageW, pageH, "F")
		drawWavyBorder(pdf)
		pdf.SetDrawColor(80, 50, 30)
		pdf.SetTextColor(80, 50, 30)
		pdf.SetLineWidth(1)
		return margin + 16
	}

	y := newPage()
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin+12, y)
	pdf.CellFormat(pageW-2*margin-24, 18, tr(sh.Title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetXY(margin+12, y)
	summary := fmt.Sprintf("%s mode - %d/%d done", sh.Mode, sh.Done, sh.Total)
	if sh.GameVersion != "" {
		summary = "Terraria " + sh.GameVersion + " - " + summary
	}
	pdf.CellFormat(pageW-2*margin-24, 18, tr(summary), "", 0, "R", false, 0, "")
	y += 30

	x := float64(margin) + 16
	bottom := float64(pageH-margin) - 16
	for _, sec := range sh.Sections {
		if y+lineH*2 > bottom {
			y = newPage()
		}
		heading := sec.Stage
		if sec.Clears {
			heading += "  (clears previous)"
		}
		pdf.SetFont("Helvetica", "B", stageSize)
		if sec.Current {
			pdf.SetTextColor(180, 40, 40)
			heading += "  < you are here"
		}
		pdf.SetXY(x, y)
		pdf.CellFormat(pageW-2*x, lineH+2, tr(heading), "B", 0, "L", false, 0, "")
		pdf.SetTextColor(80, 50, 30)
		y += lineH + 6

		pdf.SetFont("Helvetica", "", fontSize)
		if len(sec.Entries) == 0 {
			pdf.SetFont("Helvetica", "I", fontSize)
			pdf.SetXY(x+4, y)
			pdf.CellFormat(200, lineH, "no weapons in this mode", "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", fontSize)
			y += lineH
		}
		for _, e := range sec.Entries {
			if y+lineH > bottom {
				y = newPage()
				pdf.SetFont("Helvetica", "", fontSize)
			}
			drawBox(pdf, x+4, y+(lineH-boxSize)/2, e.Excluded)
			label := e.Name
			if e.Mod != "" && e.Mod != catalog.ProvenanceVanilla {
				label += " [" + string(e.Mod) + "]"
			}
			if e.Selected {
				pdf.SetTextColor(30, 60, 170)
				label += "  (current weapon)"
			}
			pdf.SetXY(x+4+boxSize+6, y)
			pdf.CellFormat(pageW-2*x-boxSize-10, lineH, tr(label), "", 0, "L", false, 0, "")
			pdf.SetTextColor(80, 50, 30)
			y += lineH
		}
		y += 6
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawBox(pdf *gofpdf.Fpdf, x, y float64, ticked bool) {
	pdf.Rect(x, y, boxSize, boxSize, "D")
	if ticked {
		pdf.Line(x+1.5, y+1.5, x+boxSize-1.5, y+boxSize-1.5)
		pdf.Line(x+boxSize-1.5, y+1.5, x+1.5, y+boxSize-1.5)
	}
}

// drawWavyBorder draws a tattered black edge around the page.
func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin, margin, pageW-2*margin, pageH-2*margin, 12, 4)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// wavyRectPoints returns polygon points for a rectangle with a sinusoidal
// wobble on each side, walking clockwise from the top-left corner.
func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, steps*4+1)
	edge := func(x0, y0, dx, dy, fx, fy float64, from int) {
		for i := from; i <= steps; i++ {
			t := float64(i) / float64(steps)
			pts = append(pts, gofpdf.PointType{
				X: x0 + t*dx + amp*math.Sin(float64(i)*fx),
				Y: y0 + t*dy + amp*math.Cos(float64(i)*fy),
			})
		}
	}
	edge(x, y, w, 0, 0.7, 0.5, 0)
	edge(x+w, y, 0, h, 0.6, 0.4, 1)
	edge(x+w, y+h, -w, 0, 0.8, 0.3, 1)
	edge(x, y+h, 0, -h, 0.5, 0.6, 1)
	return pts
}
