package db

// Movie schema used by the SQL planner's system instruction. All text columns
// are stored lowercase; year and imdb_rating are TEXT with "N/A" for missing
// values, so numeric comparisons cast through NULLIF.

type Movie struct {
	ID         uint   `gorm:"primaryKey"`
	Title      string `gorm:"type:text;index"`
	Year       string `gorm:"type:text"`
	ImdbRating string `gorm:"column:imdb_rating;type:text"`
	Plot       string `gorm:"type:text"`

	Actors    []Actor    `gorm:"many2many:movie_actors"`
	Genres    []Genre    `gorm:"many2many:movie_genres"`
	Languages []Language `gorm:"many2many:movie_languages"`
}

func (Movie) TableName() string { return "movies" }

type Actor struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:text;uniqueIndex"`
}

func (Actor) TableName() string { return "actors" }

type Genre struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:text;uniqueIndex"`
}

func (Genre) TableName() string { return "genres" }

type Language struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:text;uniqueIndex"`
}

func (Language) TableName() string { return "languages" }
