package entity

import "time"

// UserState — этап диалога с пользователем бота
type UserState string

const (
	StateIdle          UserState = "idle"           // ждём команду
	StateAwaitingImage UserState = "awaiting_image" // ждём снимок препарата
	StateAnalyzing     UserState = "analyzing"      // идёт анализ
)

// User — собеседник бота и итог его последнего анализа
type User struct {
	ID         int64
	ChatID     int64
	State      UserState
	Analyzed   int      // сколько снимков обработано
	Last       *Summary // сводка последнего анализа
	LastActive time.Time
}

// NewUser создаёт пользователя в состоянии ожидания команды
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateIdle,
	}
}

// SetState обновляет этап диалога
func (u *User) SetState(state UserState) {
	u.State = state
	u.LastActive = time.Now()
}

// Record запоминает сводку завершённого анализа
func (u *User) Record(s Summary) {
	u.Analyzed++
	u.Last = &s
	u.LastActive = time.Now()
}
