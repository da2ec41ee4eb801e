package satnogs

// bandFor labels a frequency in Hz with its radio band. Frequencies outside
// the labeled ranges yield an empty string.
func bandFor(freqHz int64) string {
	switch {
	case freqHz <= 0:
		return ""
	case freqHz < 30_000_000:
		return "HF"
	case freqHz < 300_000_000:
		return "VHF"
	case freqHz < 1_000_000_000:
		return "UHF"
	case freqHz < 2_000_000_000:
		return "L"
	case freqHz < 4_000_000_000:
		return "S"
	case freqHz < 8_000_000_000:
		return "C"
	case freqHz < 12_000_000_000:
		return "X"
	case freqHz < 18_000_000_000:
		return "Ku"
	case freqHz < 40_000_000_000:
		return "Ka"
	default:
		return ""
	}
}
