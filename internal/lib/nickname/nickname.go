// Package nickname генерирует случайные псевдонимы для новых пользователей.
//
// Псевдоним собирается из прилагательного, существительного и номера,
// например "설거지하는 유부남 42호". Используется при первом входе через
// внешнего провайдера, чтобы не раскрывать настоящее имя пользователя.
package nickname

import (
	"fmt"
	"math/rand"
)

var adjectives = []string{
	"설거지하는", "분리수거하는", "음쓰버리는", "플스숨기는", "비상금털린",
	"낚시가고픈", "회식핑계대는", "거실에서자는", "용돈받는", "주말에출근한",
	"기저귀가는", "육퇴기다리는", "몰래라면먹는", "등짝스매싱맞은", "반찬투정하는",
	"소파와물아일체된", "리모컨사수하는", "아내눈치보는", "자유를갈망하는", "로또당첨꿈꾸는",
}

var nouns = []string{
	"유부남", "남편", "아빠", "가장", "머슴",
	"집사", "운전기사", "노예", "투사", "생존자",
}

// Generate возвращает случайный псевдоним вида "прилагательное существительное N호".
func Generate() string {
	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	number := rand.Intn(999) + 1

	return fmt.Sprintf("%s %s %d호", adj, noun, number)
}
