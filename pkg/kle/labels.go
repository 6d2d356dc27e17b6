package kle

// labelMap maps the position of a label in the newline-separated input to its
// slot on the 3×4 grid, one row per alignment value. -1 drops the label.
//
// Alignment bits: 1 centers x, 2 centers y, 4 centers the front legends.
var labelMap = [8][LabelCount]int{
	{0, 6, 2, 8, 9, 11, 3, 5, 1, 4, 7, 10},
	{1, 7, -1, -1, 9, 11, 4, -1, -1, -1, -1, 10},
	{3, -1, 5, -1, 9, 11, -1, -1, 4, -1, -1, 10},
	{4, -1, -1, -1, 9, 11, -1, -1, -1, -1, -1, 10},
	{0, 6, 2, 8, 10, -1, 3, 5, 1, 4, 7, -1},
	{1, 7, -1, -1, 10, -1, 4, -1, -1, -1, -1, -1},
	{3, -1, 5, -1, 10, -1, -1, -1, 4, -1, -1, -1},
	{4, -1, -1, -1, 10, -1, -1, -1, -1, -1, -1, -1},
}

func reorderStrings(in []string, align int) [LabelCount]string {
	var out [LabelCount]string
	for i, s := range in {
		if i >= LabelCount || s == "" {
			continue
		}
		if slot := labelMap[align][i]; slot >= 0 {
			out[slot] = s
		}
	}
	return out
}

func reorderInts(in []int, align int) [LabelCount]int {
	var out [LabelCount]int
	for i, v := range in {
		if i >= LabelCount || v == 0 {
			continue
		}
		if slot := labelMap[align][i]; slot >= 0 {
			out[slot] = v
		}
	}
	return out
}
