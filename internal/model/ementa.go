package model

// Ementa is a curriculum record parametrizing an evaluation run.
type Ementa struct {
	ID             int    `json:"id"`
	DisciplineName string `json:"nome_disciplina"`
	WeeklyHours    int    `json:"carga_horaria"`
	Objectives     string `json:"objetivos"`
	Syllabus       string `json:"conteudo_programatico"`
}
