// Package services реализует вступительный экзамен: банк вопросов,
// подсчёт баллов, ранги и перевыпуск токена после сдачи.
package services

import (
	"context"
	"errors"

	"github.com/minwoojang/husband-er/internal/lib/jwt"
	"github.com/minwoojang/husband-er/internal/models"
)

var (
	ErrIncompleteAnswers = errors.New("answers do not cover all questions")
	ErrUnknownOption     = errors.New("unknown answer option")
)

// PassingScore - минимальная сумма баллов для сдачи экзамена.
const PassingScore = 200

// Option - один вариант ответа. Баллы не сериализуются наружу.
type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Score int    `json:"-"`
}

// Question - вопрос экзамена с вариантами ответов.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Result - итог сдачи экзамена.
type Result struct {
	Score    int    `json:"score"`
	Passed   bool   `json:"passed"`
	Rank     string `json:"rank"`
	RankDesc string `json:"rank_desc"`
	Token    string `json:"token,omitempty"`
}

var questions = []Question{
	{
		ID:   1,
		Text: "Q1. 아내가 '나 뭐 달라진 거 없어?'라고 물었을 때, 가장 적절한 생존 답변은?",
		Options: []Option{
			{ID: "A", Text: "머리 잘랐어? (단발성 대답)", Score: 10},
			{ID: "B", Text: "살 빠졌나? (위험한 도박)", Score: 0},
			{ID: "C", Text: "(동공 지진 후) 오늘따라 더 예뻐 보이는데? (회피 기동)", Score: 100},
			{ID: "D", Text: "글쎄, 잘 모르겠는데. (사망)", Score: -50},
		},
	},
	{
		ID:   2,
		Text: "Q2. 주말 아침, 소파에 누워있는데 청소기 소리가 들린다. 당신의 행동은?",
		Options: []Option{
			{ID: "A", Text: "다리를 들어 청소기가 지나가게 해준다. (매너남?)", Score: 20},
			{ID: "B", Text: "벌떡 일어나서 걸레를 빨아온다. (생존 본능)", Score: 100},
			{ID: "C", Text: "TV 볼륨을 높인다. (용자)", Score: -100},
			{ID: "D", Text: "자는 척한다. (비겁함)", Score: 10},
		},
	},
	{
		ID:   3,
		Text: "Q3. 친구들과 술 한잔하고 늦게 귀가했다. 현관 도어락 소리에 안방 불이 탁 켜졌다. 이때 첫 마디는?",
		Options: []Option{
			{ID: "A", Text: "어, 자? (현실 파악 불가)", Score: 0},
			{ID: "B", Text: "배고프다 밥 줘. (간 큰 남자)", Score: -200},
			{ID: "C", Text: "(검은 봉지를 흔들며) 붕어빵 사 왔지~ (뇌물 공세)", Score: 100},
			{ID: "D", Text: "야, 김 부장 진짜 웃기더라. (화제 전환)", Score: 30},
		},
	},
}

// Questions возвращает банк вопросов экзамена.
func Questions() []Question {
	return questions
}

// Grade подсчитывает сумму баллов по ответам, где ключ - номер вопроса,
// значение - идентификатор варианта.
func Grade(answers map[int]string) (int, error) {
	if len(answers) != len(questions) {
		return 0, ErrIncompleteAnswers
	}

	total := 0
	for _, q := range questions {
		optionID, ok := answers[q.ID]
		if !ok {
			return 0, ErrIncompleteAnswers
		}
		found := false
		for _, opt := range q.Options {
			if opt.ID == optionID {
				total += opt.Score
				found = true
				break
			}
		}
		if !found {
			return 0, ErrUnknownOption
		}
	}
	return total, nil
}

// RankFor возвращает титул и описание ранга по сумме баллов.
func RankFor(score int) (string, string) {
	switch {
	case score >= 300:
		return "👑 생존 고수 (만렙)", "당신은 아내의 마음을 읽는 독심술사!"
	case score >= PassingScore:
		return "🛡️ 중급 생존자", "이 정도면 웬만한 위기는 넘길 수 있습니다."
	case score >= 100:
		return "🚑 응급 환자", "아직 위험합니다. 더 공부하고 오세요."
	default:
		return "☠️ 사망 확정", "오늘 밤 집에 들어가지 마시는 게 좋겠습니다."
	}
}

// UserRepository описывает контракт для отметки сдачи экзамена.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	SetExamPassed(ctx context.Context, userUID string) error
}

// ExamService отвечает за прием экзамена и перевыпуск токена после сдачи.
type ExamService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewExamService создает новый экземпляр ExamService.
func NewExamService(users UserRepository, jwtMaker jwt.Maker) *ExamService {
	return &ExamService{users: users, jwtMaker: jwtMaker}
}

// Submit подсчитывает результат экзамена. При сдаче флаг сохраняется
// в профиле и выпускается новый токен с обновлённым флагом.
func (s *ExamService) Submit(ctx context.Context, userUID string, answers map[int]string) (*Result, error) {
	score, err := Grade(answers)
	if err != nil {
		return nil, err
	}

	rank, rankDesc := RankFor(score)
	result := &Result{
		Score:    score,
		Passed:   score >= PassingScore,
		Rank:     rank,
		RankDesc: rankDesc,
	}
	if !result.Passed {
		return result, nil
	}

	if err := s.users.SetExamPassed(ctx, userUID); err != nil {
		return nil, err
	}
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	user.ExamPassed = true

	token, err := s.jwtMaker.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	result.Token = token
	return result, nil
}
