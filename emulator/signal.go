package emulator

// CheckSignal returns true if values is the clock signal 0, 1, 0, 1, ...
func CheckSignal(values []int64) bool {
	if len(values) == 0 {
		return false
	}

	for n, value := range values {
		if value != int64(n&1) {
			return false
		}
	}

	return true
}
