package media

// SetMaxBytes lowers the fetch limit so tests need not serve a gigabyte.
func (r *Rehoster) SetMaxBytes(n int64) { r.maxBytes = n }
