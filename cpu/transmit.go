package cpu

const (
	TRANSMIT_CAPACITY = 100 // Default transmit buffer capacity.
)

// Transmit is the fixed capacity output buffer written by the out instruction.
type Transmit struct {
	Capacity int     // Capacity in values.
	Index    int     // Write cursor.
	Data     []int64 // Values written so far, Data[:Index].
}

// Send appends a value. Returns true if the buffer is now full.
// Sending to a full buffer is a caller error, and panics.
func (tx *Transmit) Send(value int64) (full bool) {
	if tx.Full() {
		panic("transmit buffer overrun")
	}

	if len(tx.Data) != tx.Capacity {
		tx.Data = make([]int64, tx.Capacity)
	}

	tx.Data[tx.Index] = value
	tx.Index++

	return tx.Full()
}

// Full returns true when the write cursor has reached capacity.
func (tx *Transmit) Full() bool {
	return tx.Index >= tx.Capacity
}

// Values returns the values written so far.
func (tx *Transmit) Values() []int64 {
	if tx.Index == 0 {
		return nil
	}
	return tx.Data[:tx.Index]
}

// Reset clears the buffer and rewinds the write cursor.
func (tx *Transmit) Reset() {
	tx.Index = 0
	clear(tx.Data)
}
