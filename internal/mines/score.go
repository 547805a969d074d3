package mines

// Score rates a won round by board coverage and speed:
//
//	base  = floor(revealed / total * 1000)
//	bonus = max(0, 1000 - elapsed*10)
//	score = floor((base + bonus) / 10)
func Score(revealedCount, totalCells, elapsedSeconds int) int {
	if totalCells <= 0 {
		return 0
	}
	base := revealedCount * 1000 / totalCells
	bonus := max(0, 1000-elapsedSeconds*10)
	return (base + bonus) / 10
}
