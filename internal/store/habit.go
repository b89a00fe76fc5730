package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/schedule"
)

type HabitStore struct {
	db *sql.DB
}

func NewHabitStore(db *sql.DB) *HabitStore {
	return &HabitStore{db: db}
}

func scanHabit(scanner interface{ Scan(...any) error }) (*model.Habit, error) {
	var h model.Habit
	var repeatDays string
	err := scanner.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Description, &h.Color,
		&h.Frequency, &repeatDays, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(repeatDays), &h.RepeatDays); err != nil {
		return nil, fmt.Errorf("decode repeat days for habit %d: %w", h.ID, err)
	}
	if h.RepeatDays == nil {
		h.RepeatDays = []string{}
	}
	return &h, nil
}

const habitCols = `id, user_id, title, description, color, frequency, repeat_days, created_at`

func (s *HabitStore) Create(userID int64, title, description, color string, frequency model.Frequency, repeatDays []string) (*model.Habit, error) {
	if repeatDays == nil {
		repeatDays = []string{}
	}
	days, err := json.Marshal(repeatDays)
	if err != nil {
		return nil, fmt.Errorf("encode repeat days: %w", err)
	}
	if frequency == "" {
		frequency = model.FrequencyDaily
	}

	result, err := s.db.Exec(
		`INSERT INTO habits (user_id, title, description, color, frequency, repeat_days) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, title, description, color, frequency, string(days),
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(userID, id)
}

func (s *HabitStore) GetByID(userID, id int64) (*model.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitCols+` FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

// List returns the user's habits in creation order.
func (s *HabitStore) List(userID int64) ([]model.Habit, error) {
	rows, err := s.db.Query(
		`SELECT `+habitCols+` FROM habits WHERE user_id = ? ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// Delete removes a habit along with all of its completions and exclusions.
func (s *HabitStore) Delete(userID, id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM habit_completions WHERE habit_id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete completions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM habit_exclusions WHERE habit_id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete exclusions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return tx.Commit()
}

// Complete marks the habit done on date. Completing twice is a no-op.
func (s *HabitStore) Complete(userID, habitID int64, date string) error {
	_, err := s.db.Exec(
		`INSERT INTO habit_completions (habit_id, user_id, date)
		 SELECT id, user_id, ? FROM habits WHERE id = ? AND user_id = ?
		 ON CONFLICT(habit_id, date) DO NOTHING`,
		date, habitID, userID,
	)
	if err != nil {
		return fmt.Errorf("complete habit: %w", err)
	}
	return nil
}

func (s *HabitStore) Uncomplete(userID, habitID int64, date string) error {
	_, err := s.db.Exec(
		`DELETE FROM habit_completions WHERE habit_id = ? AND user_id = ? AND date = ?`,
		habitID, userID, date,
	)
	if err != nil {
		return fmt.Errorf("uncomplete habit: %w", err)
	}
	return nil
}

// Exclude hides the habit from the due list on date only.
func (s *HabitStore) Exclude(userID, habitID int64, date string) error {
	_, err := s.db.Exec(
		`INSERT INTO habit_exclusions (habit_id, user_id, date)
		 SELECT id, user_id, ? FROM habits WHERE id = ? AND user_id = ?
		 ON CONFLICT(habit_id, date) DO NOTHING`,
		date, habitID, userID,
	)
	if err != nil {
		return fmt.Errorf("exclude habit: %w", err)
	}
	return nil
}

// ListCompletions returns the user's completions with from <= date <= to.
func (s *HabitStore) ListCompletions(userID int64, from, to string) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT habit_id, user_id, date FROM habit_completions
		 WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC, habit_id ASC`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	completions := []model.Completion{}
	for rows.Next() {
		var c model.Completion
		if err := rows.Scan(&c.HabitID, &c.UserID, &c.Date); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// ListExclusions returns the user's exclusions with from <= date <= to.
func (s *HabitStore) ListExclusions(userID int64, from, to string) ([]model.Exclusion, error) {
	rows, err := s.db.Query(
		`SELECT habit_id, user_id, date FROM habit_exclusions
		 WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC, habit_id ASC`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	defer rows.Close()

	exclusions := []model.Exclusion{}
	for rows.Next() {
		var e model.Exclusion
		if err := rows.Scan(&e.HabitID, &e.UserID, &e.Date); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		exclusions = append(exclusions, e)
	}
	return exclusions, rows.Err()
}

// LoadSnapshot fetches the habit catalog plus completions and exclusions in
// [from, to] for one user.
func (s *HabitStore) LoadSnapshot(userID int64, from, to string) (schedule.Snapshot, error) {
	habits, err := s.List(userID)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	completions, err := s.ListCompletions(userID, from, to)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	exclusions, err := s.ListExclusions(userID, from, to)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	return schedule.Snapshot{
		Habits:      habits,
		Completions: completions,
		Exclusions:  exclusions,
	}, nil
}

// LoadDay fetches everything needed to build the due list for date.
func (s *HabitStore) LoadDay(userID int64, date string) (schedule.Snapshot, error) {
	return s.LoadSnapshot(userID, date, date)
}

// LoadWindow fetches everything needed to build streak grids over window,
// which must be ordered oldest first.
func (s *HabitStore) LoadWindow(userID int64, window []string) (schedule.Snapshot, error) {
	if len(window) == 0 {
		habits, err := s.List(userID)
		if err != nil {
			return schedule.Snapshot{}, err
		}
		return schedule.Snapshot{Habits: habits}, nil
	}
	return s.LoadSnapshot(userID, window[0], window[len(window)-1])
}
