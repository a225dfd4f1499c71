package main

import "math"

const (
	SpatialCellSize = 100.0 // several plane radii
	SpatialCells    = int(WorldSize / SpatialCellSize)
)

// SpatialGrid buckets player indices by cell for broad-phase queries. Cells
// wrap at the world edge like everything else on the torus.
type SpatialGrid struct {
	cells [SpatialCells * SpatialCells][]int
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func wrapCell(c int) int {
	c %= SpatialCells
	if c < 0 {
		c += SpatialCells
	}
	return c
}

func cellCoord(v float64) int {
	return wrapCell(int(math.Floor(v / SpatialCellSize)))
}

// Insert adds idx at the cell containing pos
func (g *SpatialGrid) Insert(pos Vec2, idx int) {
	cell := cellCoord(pos.Y)*SpatialCells + cellCoord(pos.X)
	g.cells[cell] = append(g.cells[cell], idx)
}

// QueryBuf appends every index stored in cells overlapping the box of
// half-size radius around pos. radius must stay below half the world.
func (g *SpatialGrid) QueryBuf(pos Vec2, radius float64, buf []int) []int {
	minCX := int(math.Floor((pos.X - radius) / SpatialCellSize))
	maxCX := int(math.Floor((pos.X + radius) / SpatialCellSize))
	minCY := int(math.Floor((pos.Y - radius) / SpatialCellSize))
	maxCY := int(math.Floor((pos.Y + radius) / SpatialCellSize))
	for cy := minCY; cy <= maxCY; cy++ {
		row := wrapCell(cy) * SpatialCells
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[row+wrapCell(cx)]...)
		}
	}
	return buf
}

// rebuildPlayerGrid indexes the living players by position
func (g *Game) rebuildPlayerGrid() {
	g.grid.Clear()
	for i, p := range g.players {
		if !p.HasDied() {
			g.grid.Insert(p.Position, i)
		}
	}
}

// nearbyPlayers returns the indices of players that could touch a circle of
// radius r at pos; callers still run the exact check. The slice is reused
// by the next call.
func (g *Game) nearbyPlayers(pos Vec2, r float64) []int {
	g.queryBuf = g.grid.QueryBuf(pos, r+PlaneSize, g.queryBuf[:0])
	return g.queryBuf
}
