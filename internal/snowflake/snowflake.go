// Package snowflake generates the time ordered IDs of every row the app stores.
package snowflake

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type Snowflake struct {
	Timestamp int64
	WorkerID  int64
	Increment int64
}

const (
	timestampLength int64 = 42
	timestampPos          = 64 - timestampLength                  // 22
	workerLength    int64 = 10
	workerPos             = timestampPos - workerLength           // 12
	incrementLength       = 64 - (timestampLength + workerLength) // 12

	maxWorkerValue    int64 = 1<<workerLength - 1
	maxIncrementValue int64 = 1<<incrementLength - 1
)

var ErrIncrementOverflow = errors.New("snowflake increment overflow")

var (
	mutex                        sync.Mutex
	lastIncrement, lastTimestamp int64

	workerID    int64
	hasWorkerID bool
)

// Setup sets the worker ID baked into every generated ID. It can only be called once.
func Setup(id int64) error {
	mutex.Lock()
	defer mutex.Unlock()

	if id < 0 || id > maxWorkerValue {
		return fmt.Errorf("worker ID must be between 0 and %d", maxWorkerValue)
	}
	if hasWorkerID {
		return fmt.Errorf("worker ID for snowflake generator has been already set")
	}

	workerID = id
	hasWorkerID = true
	return nil
}

// Generate returns a new ID. More than 4096 IDs within the same millisecond overflow.
func Generate() (int64, error) {
	mutex.Lock()
	defer mutex.Unlock()

	timestamp := time.Now().UnixMilli()
	if timestamp == lastTimestamp {
		lastIncrement++
		if lastIncrement > maxIncrementValue {
			return 0, ErrIncrementOverflow
		}
	} else {
		lastIncrement = 0
		lastTimestamp = timestamp
	}

	return timestamp<<timestampPos | workerID<<workerPos | lastIncrement, nil
}

func Extract(id int64) Snowflake {
	return Snowflake{
		Timestamp: id >> timestampPos,
		WorkerID:  (id >> workerPos) & maxWorkerValue,
		Increment: id & maxIncrementValue,
	}
}

// Time returns the creation time encoded in id.
func Time(id int64) time.Time {
	if id <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(id >> timestampPos).UTC()
}
