package main

func source() string {
	return "user-input"
}

func sanitize(s string) string {
	if len(s) > 4 {
		return s[:4]
	}
	return s
}

func main() {
	x := source()
	y := sanitize(x)
	_ = y
}
