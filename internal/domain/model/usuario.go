package model

import (
	"time"
)

// Usuario é a representação persistida de um usuário
type Usuario struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Nome        string    `gorm:"size:255;not null"`
	Email       string    `gorm:"size:255;not null;uniqueIndex:idx_usuarios_email"`
	DataCriacao time.Time `gorm:"column:data_criacao;not null;autoCreateTime"`
}

// TableName define o nome da tabela
func (Usuario) TableName() string {
	return "usuarios"
}

// UsuarioDTO é a forma do usuário que cruza a fronteira HTTP.
// Campos ponteiro distinguem valor ausente de valor vazio.
type UsuarioDTO struct {
	ID          *int64     `json:"id,omitempty"`
	Nome        *string    `json:"nome" binding:"required,notblank"`
	Email       *string    `json:"email" binding:"required,notblank,email"`
	DataCriacao *time.Time `json:"dataCriacao,omitempty"`
}

// ToDTO converte a entidade para o DTO de resposta
func (u *Usuario) ToDTO() UsuarioDTO {
	id := u.ID
	nome := u.Nome
	email := u.Email
	dataCriacao := u.DataCriacao
	return UsuarioDTO{
		ID:          &id,
		Nome:        &nome,
		Email:       &email,
		DataCriacao: &dataCriacao,
	}
}

// NomeValue retorna o nome ou string vazia quando ausente
func (d *UsuarioDTO) NomeValue() string {
	if d == nil || d.Nome == nil {
		return ""
	}
	return *d.Nome
}

// EmailValue retorna o email ou string vazia quando ausente
func (d *UsuarioDTO) EmailValue() string {
	if d == nil || d.Email == nil {
		return ""
	}
	return *d.Email
}
