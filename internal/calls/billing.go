package calls

// BilledMinutes rounds a call duration up to whole minutes. Zero and negative
// durations bill zero minutes; any partial minute bills as a full one.
func BilledMinutes(durationSeconds int) int {
	if durationSeconds <= 0 {
		return 0
	}
	return (durationSeconds + 59) / 60
}

// TotalCostPaise prices billed minutes at the call's snapshotted rate.
func TotalCostPaise(billedMinutes int, perMinutePaise int64) int64 {
	if billedMinutes <= 0 {
		return 0
	}
	return int64(billedMinutes) * perMinutePaise
}

// SharePaise is the advocate's cut of a billed total, floored to the paise.
// The platform keeps the remainder, so the two legs always sum to the total.
func SharePaise(totalPaise int64, percent int) int64 {
	return totalPaise * int64(percent) / 100
}
