package model

import (
	"math"

	"github.com/google/uuid"
)

// CountertopPiece is one rectangular worktop section to be cut from stone slabs.
type CountertopPiece struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Length   float64 `json:"length"` // mm
	Depth    float64 `json:"depth"`  // mm
	Quantity int     `json:"quantity"`
}

// NewCountertopPiece creates a piece with a fresh ID.
func NewCountertopPiece(label string, length, depth float64, qty int) CountertopPiece {
	return CountertopPiece{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Depth:    depth,
		Quantity: qty,
	}
}

// SlabEstimate holds the results of a countertop slab purchasing calculation.
// Areas are square millimetres and include the cut allowance on every piece.
// OversizePieces lists labels that fit no slab in either orientation.
type SlabEstimate struct {
	TotalPieceArea   float64  `json:"total_piece_area"`
	TotalSquareMeter float64  `json:"total_square_meter"`
	SlabArea         float64  `json:"slab_area"`
	SlabsNeededExact float64  `json:"slabs_needed_exact"`
	SlabsNeededMin   int      `json:"slabs_needed_min"`
	SlabsWithWaste   int      `json:"slabs_with_waste"`
	WastePercent     float64  `json:"waste_percent"`
	EstimatedCost    float64  `json:"estimated_cost"`
	PricePerSlab     float64  `json:"price_per_slab"`
	CutAllowance     float64  `json:"cut_allowance"`
	OversizePieces   []string `json:"oversize_pieces"`
}

// CalculateSlabEstimate computes how many slabs to buy for a set of countertop pieces.
// It accounts for the saw cut allowance and an additional waste percentage factor.
func CalculateSlabEstimate(pieces []CountertopPiece, slabLength, slabDepth, cutAllowance, wastePercent, pricePerSlab float64) SlabEstimate {
	var totalArea float64
	oversize := []string{}
	for _, p := range pieces {
		l := p.Length + cutAllowance
		d := p.Depth + cutAllowance
		totalArea += l * d * float64(p.Quantity)
		fits := (l <= slabLength && d <= slabDepth) || (d <= slabLength && l <= slabDepth)
		if !fits {
			oversize = append(oversize, p.Label)
		}
	}

	slabArea := slabLength * slabDepth
	if slabArea <= 0 {
		return SlabEstimate{
			TotalPieceArea:   totalArea,
			TotalSquareMeter: totalArea / 1e6,
			WastePercent:     wastePercent,
			CutAllowance:     cutAllowance,
			OversizePieces:   oversize,
		}
	}

	exact := totalArea / slabArea
	minSlabs := int(math.Ceil(exact))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minSlabs {
		withWaste = minSlabs
	}

	return SlabEstimate{
		TotalPieceArea:   totalArea,
		TotalSquareMeter: totalArea / 1e6,
		SlabArea:         slabArea,
		SlabsNeededExact: exact,
		SlabsNeededMin:   minSlabs,
		SlabsWithWaste:   withWaste,
		WastePercent:     wastePercent,
		EstimatedCost:    float64(withWaste) * pricePerSlab,
		PricePerSlab:     pricePerSlab,
		CutAllowance:     cutAllowance,
		OversizePieces:   oversize,
	}
}
