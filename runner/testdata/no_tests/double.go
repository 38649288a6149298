package notests

func Double(x int) int {
	return x * 2
}
