package sms

const segmentLength = 160

// Segments returns the advisory SMS segment count for a message body.
func Segments(body string) int {
	if body == "" {
		return 0
	}
	return (len(body) + segmentLength - 1) / segmentLength
}

// EstimatedCostCents returns the advisory send cost at the configured
// per-segment rate. Neither value is an enforced limit.
func EstimatedCostCents(body string, ratePerSegmentCents int) int {
	return Segments(body) * ratePerSegmentCents
}
