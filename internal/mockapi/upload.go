package mockapi

import (
	"context"
	"time"
)

// uploadTicks — число шагов симуляции прогресса.
const uploadTicks = 20

// SimulateUpload гонит синтетический прогресс загрузки: колбэк получает
// монотонно растущие проценты и в последнем вызове ровно 100, независимо от
// реальной передачи данных. Длительность делится поровну между шагами.
func (r *Repository) SimulateUpload(ctx context.Context, duration time.Duration, onProgress func(percent int)) error {
	if duration <= 0 {
		duration = 2 * time.Second
	}
	step := duration / uploadTicks

	progress := 0.0
	for tick := 1; tick <= uploadTicks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step):
		}

		if tick == uploadTicks {
			progress = 100
		} else {
			r.mu.Lock()
			jitter := 0.5 + r.rng.Float64()
			r.mu.Unlock()
			// Средний темп — остаток пути на оставшиеся шаги, с разбросом,
			// но до последнего шага сотня недостижима.
			pace := (100 - progress) / float64(uploadTicks-tick+1)
			progress += pace * jitter
			if progress > 99 {
				progress = 99
			}
		}

		if onProgress != nil {
			onProgress(int(progress))
		}
	}
	return nil
}
