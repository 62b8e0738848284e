package bot

import "sync"

// View - экран чата, меняется только действием пользователя
type View string

const (
	ViewHome   View = "home"
	ViewActive View = "active"
)

// Step - какой ввод бот ждет следующим сообщением
type Step string

const (
	StepNone          Step = ""
	StepMeal          Step = "meal"
	StepWeight        Step = "weight"
	StepHeight        Step = "height"
	StepAge           Step = "age"
	StepHydrationGoal Step = "hydration_goal"
	StepHealthGoal    Step = "health_goal"
	StepUserName      Step = "user_name"
	StepPantryItem    Step = "pantry_item"
	StepPlanMeal      Step = "plan_meal"
	StepBioNotes      Step = "bio_notes"
)

// ChatState хранит состояние одного чата
type ChatState struct {
	View     View
	Step     Step
	Months   int
	TempData map[string]string
	// Busy - в чате выполняется запрос к шлюзу
	Busy bool
}

// ChatFSM управляет состояниями всех чатов
type ChatFSM struct {
	mu     sync.Mutex
	states map[int64]*ChatState
}

// Конструктор FSM
func NewChatFSM() *ChatFSM {
	return &ChatFSM{
		states: make(map[int64]*ChatState),
	}
}

func (fsm *ChatFSM) get(chatID int64) *ChatState {
	state, exists := fsm.states[chatID]
	if !exists {
		state = &ChatState{View: ViewHome, TempData: map[string]string{}}
		fsm.states[chatID] = state
	}
	return state
}

// Получить копию состояния; новый чат начинает с home
func (fsm *ChatFSM) GetState(chatID int64) ChatState {
	fsm.mu.Lock()
	defer fsm.mu.Unlock()

	src := fsm.get(chatID)
	state := *src
	state.TempData = make(map[string]string, len(src.TempData))
	for k, v := range src.TempData {
		state.TempData[k] = v
	}
	return state
}

// Изменить состояние под блокировкой
func (fsm *ChatFSM) Update(chatID int64, fn func(*ChatState)) {
	fsm.mu.Lock()
	defer fsm.mu.Unlock()
	fn(fsm.get(chatID))
}

// SetView переключает экран и сбрасывает ожидаемый ввод
func (fsm *ChatFSM) SetView(chatID int64, view View) {
	fsm.Update(chatID, func(s *ChatState) {
		s.View = view
		s.Step = StepNone
		s.TempData = map[string]string{}
	})
}

// Await запоминает следующий ожидаемый ввод
func (fsm *ChatFSM) Await(chatID int64, step Step, data map[string]string) {
	fsm.Update(chatID, func(s *ChatState) {
		s.Step = step
		s.TempData = map[string]string{}
		for k, v := range data {
			s.TempData[k] = v
		}
	})
}

// ClearStep завершает текущий ввод
func (fsm *ChatFSM) ClearStep(chatID int64) {
	fsm.Update(chatID, func(s *ChatState) {
		s.Step = StepNone
		s.TempData = map[string]string{}
	})
}

// TryBusy занимает чат; false, если предыдущий запрос еще не завершен
func (fsm *ChatFSM) TryBusy(chatID int64) bool {
	fsm.mu.Lock()
	defer fsm.mu.Unlock()

	s := fsm.get(chatID)
	if s.Busy {
		return false
	}
	s.Busy = true
	return true
}

func (fsm *ChatFSM) ClearBusy(chatID int64) {
	fsm.Update(chatID, func(s *ChatState) { s.Busy = false })
}

// Удалить состояние
func (fsm *ChatFSM) DeleteState(chatID int64) {
	fsm.mu.Lock()
	defer fsm.mu.Unlock()
	delete(fsm.states, chatID)
}
