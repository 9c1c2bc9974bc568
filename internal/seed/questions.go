// Package seed bundles the La Casa de Bernarda Alba question bank used to
// populate an empty store.
package seed

import (
	"time"

	"alba-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// Questions returns the bundled bank with fresh ids and timestamps.
func Questions() []domain.Question {
	now := time.Now().UTC()
	bank := []domain.Question{
		{
			Type:        domain.TypeMultiple,
			Category:    domain.CategoryPersonajes,
			Prompt:      "¿Cuántas hijas tiene Bernarda Alba?",
			Options:     []string{"4", "5", "6", "7"},
			Answer:      domain.IndexAnswer(1),
			Explanation: "Bernarda Alba tiene cinco hijas: Angustias, Magdalena, Amelia, Martirio y Adela.",
			Difficulty:  domain.DifficultyEasy,
		},
		{
			Type:        domain.TypeMultiple,
			Category:    domain.CategoryTemas,
			Prompt:      "¿Qué simboliza el color blanco en la obra?",
			Options:     []string{"La pureza y la virginidad", "La muerte", "La represión", "La libertad"},
			Answer:      domain.IndexAnswer(0),
			Explanation: "El blanco simboliza la pureza y la virginidad, especialmente asociado con Adela.",
			Difficulty:  domain.DifficultyMedium,
		},
		{
			Type:        domain.TypeBoolean,
			Category:    domain.CategoryPersonajes,
			Prompt:      "Adela es la hija mayor de Bernarda Alba",
			Answer:      domain.BoolAnswer(false),
			Explanation: "Adela es la hija menor de Bernarda. La mayor es Angustias.",
			Difficulty:  domain.DifficultyEasy,
		},
		{
			Type:        domain.TypeMultiple,
			Category:    domain.CategorySimbolismo,
			Prompt:      "¿Qué representa el bastón de Bernarda?",
			Options:     []string{"Su vejez", "El poder patriarcal", "Su enfermedad", "La tradición"},
			Answer:      domain.IndexAnswer(1),
			Explanation: "El bastón de Bernarda representa el poder patriarcal y la autoridad represiva.",
			Difficulty:  domain.DifficultyHard,
		},
		{
			Type:        domain.TypeEssay,
			Category:    domain.CategoryTemas,
			Prompt:      "Explica el tema de la represión femenina en La Casa de Bernarda Alba (máximo 150 palabras)",
			Answer:      domain.TextAnswer(""),
			Explanation: "La represión femenina es el tema central de la obra. Bernarda impone un luto riguroso de ocho años tras la muerte de su marido, encerrando a sus hijas y negándoles cualquier libertad.",
			Difficulty:  domain.DifficultyHard,
		},
		{
			Type:        domain.TypeBoolean,
			Category:    domain.CategorySimbolismo,
			Prompt:      "El caballo garañón simboliza la pasión y la sexualidad masculina",
			Answer:      domain.BoolAnswer(true),
			Explanation: "El caballo garañón efectivamente simboliza la fuerza sexual masculina y la pasión reprimida.",
			Difficulty:  domain.DifficultyMedium,
		},
		{
			Type:        domain.TypeMultiple,
			Category:    domain.CategoryPersonajes,
			Prompt:      "¿Quién es Pepe el Romano?",
			Options:     []string{"El pretendiente de Adela", "El novio de Angustias", "Ambas respuestas son correctas", "El marido fallecido de Bernarda"},
			Answer:      domain.IndexAnswer(2),
			Explanation: "Pepe el Romano está comprometido oficialmente con Angustias por su dinero, pero mantiene una relación secreta con Adela.",
			Difficulty:  domain.DifficultyMedium,
		},
		{
			Type:        domain.TypeEssay,
			Category:    domain.CategorySimbolismo,
			Prompt:      "Analiza el simbolismo del agua en la obra (máximo 100 palabras)",
			Answer:      domain.TextAnswer(""),
			Explanation: "El agua simboliza la vida, la fertilidad y la purificación. Su ausencia representa la sequedad emocional y sexual de la casa.",
			Difficulty:  domain.DifficultyHard,
		},
		{
			Type:        domain.TypeBoolean,
			Category:    domain.CategoryTemas,
			Prompt:      "La obra pertenece al género de la tragedia rural",
			Answer:      domain.BoolAnswer(true),
			Explanation: "Lorca definió la obra como drama de mujeres en los pueblos de España, siendo considerada una tragedia rural.",
			Difficulty:  domain.DifficultyEasy,
		},
		{
			Type:        domain.TypeMultiple,
			Category:    domain.CategoryPersonajes,
			Prompt:      "¿Qué personaje representa la voz del pueblo?",
			Options:     []string{"La Poncia", "María Josefa", "Prudencia", "La criada"},
			Answer:      domain.IndexAnswer(0),
			Explanation: "La Poncia actúa como confidente y representa la sabiduría popular y la voz del pueblo.",
			Difficulty:  domain.DifficultyMedium,
		},
		{
			Type:        domain.TypeMultiple,
			Category:    domain.CategorySimbolismo,
			Prompt:      "¿Qué simboliza el color negro en la obra?",
			Options:     []string{"La noche", "El luto y la muerte", "La elegancia", "El misterio"},
			Answer:      domain.IndexAnswer(1),
			Explanation: "El color negro simboliza principalmente el luto riguroso y la muerte que domina la casa.",
			Difficulty:  domain.DifficultyEasy,
		},
		{
			Type:        domain.TypeBoolean,
			Category:    domain.CategoryPersonajes,
			Prompt:      "Martirio está enamorada en secreto de Pepe el Romano",
			Answer:      domain.BoolAnswer(true),
			Explanation: "Martirio siente una pasión no correspondida por Pepe el Romano, lo que genera su amargura.",
			Difficulty:  domain.DifficultyMedium,
		},
		{
			Type:        domain.TypeMultiple,
			Category:    domain.CategoryTemas,
			Prompt:      "¿Cuál es el tema principal de la obra?",
			Options:     []string{"El amor", "La represión y la autoridad", "La pobreza", "La educación"},
			Answer:      domain.IndexAnswer(1),
			Explanation: "El tema central es la represión ejercida por la autoridad patriarcal sobre las mujeres.",
			Difficulty:  domain.DifficultyEasy,
		},
		{
			Type:        domain.TypeEssay,
			Category:    domain.CategoryPersonajes,
			Prompt:      "Describe la personalidad y función dramática de La Poncia",
			Answer:      domain.TextAnswer(""),
			Explanation: "La Poncia es la criada más antigua y confidente de Bernarda. Representa la voz del pueblo y la sabiduría popular.",
			Difficulty:  domain.DifficultyMedium,
		},
		{
			Type:        domain.TypeBoolean,
			Category:    domain.CategorySimbolismo,
			Prompt:      "Las paredes gruesas de la casa simbolizan el aislamiento social",
			Answer:      domain.BoolAnswer(true),
			Explanation: "Las paredes gruesas representan tanto el aislamiento físico como social impuesto por Bernarda.",
			Difficulty:  domain.DifficultyMedium,
		},
	}

	for i := range bank {
		bank[i].ID = uuid.NewString()
		bank[i].CreatedAt = now
	}
	return bank
}
