package loader

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/proposalflow/backend/internal/logger"
	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/store"
)

// Lister — источник страниц предложений. Ему удовлетворяют и сервис поверх
// Postgres, и мок-репозиторий.
type Lister interface {
	List(ctx context.Context, page, pageSize int, filters models.ProposalFilters, sort models.SortOption) (*models.ProposalPage, error)
}

// State — фаза цикла загрузки.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
)

// Loader управляет циклом запрос/ответ: выставляет флаг загрузки, по успеху
// кладёт страницу в стор, по ошибке сохраняет сообщение и оставляет стор
// нетронутым — устаревшие данные лучше пустого экрана.
//
// Перекрывающиеся загрузки упорядочены номером запроса: ответ с устаревшим
// номером отбрасывается. Исходная реализация жила по принципу "последний
// разрешившийся побеждает", что давало гонку между перекрывающимися
// запросами; здесь это решено явно.
type Loader struct {
	source Lister
	store  *store.ProposalStore

	mu      sync.Mutex
	seq     uint64
	applied uint64
	loading bool
	lastErr string
}

// New создаёт оркестратор поверх источника и стора.
func New(source Lister, st *store.ProposalStore) *Loader {
	return &Loader{source: source, store: st}
}

// Load выполняет один цикл загрузки страницы. Возвращает страницу, применённую
// к стору, либо nil, если ответ оказался устаревшим или завершился ошибкой.
func (l *Loader) Load(ctx context.Context, page, pageSize int, filters models.ProposalFilters, sort models.SortOption) (*models.ProposalPage, error) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.loading = true
	l.lastErr = ""
	l.mu.Unlock()

	result, err := l.source.List(ctx, page, pageSize, filters, sort)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq == l.seq {
		l.loading = false
	}

	if err != nil {
		if seq == l.seq {
			l.lastErr = err.Error()
		}
		logger.Log.WithFields(logrus.Fields{
			"seq":   seq,
			"page":  page,
			"error": err,
		}).Warn("loader: загрузка страницы не удалась")
		return nil, err
	}

	if seq < l.applied {
		// Пока этот запрос был в полёте, применился более свежий ответ.
		logger.Log.WithField("seq", seq).Debug("loader: устаревший ответ отброшен")
		return nil, nil
	}

	l.applied = seq
	l.store.ReplaceAll(result.Proposals)
	return result, nil
}

// Loading сообщает, есть ли активная загрузка.
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// State возвращает текущую фазу автомата.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loading {
		return StateLoading
	}
	return StateIdle
}

// LastError возвращает сообщение последней неуспешной загрузки; пустая строка,
// если предыдущий цикл завершился успешно.
func (l *Loader) LastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}
