package schema

// Table names.
const (
	Songplays     = "songplays"
	Users         = "users"
	Songs         = "songs"
	Artists       = "artists"
	Time          = "time"
	StagingEvents = "staging_events"
	StagingSongs  = "staging_songs"
)

func col(name, typ string) Column        { return Column{Name: name, Type: typ, Nullable: true} }
func required(name, typ string) Column   { return Column{Name: name, Type: typ} }
func primaryKey(name, typ string) Column { return Column{Name: name, Type: typ, PrimaryKey: true} }

var (
	songplaysTable = Table{
		Name: Songplays,
		Columns: []Column{
			primaryKey("songplay_id", TypeIdentity),
			required("start_time", TypeTimestamp),
			required("user_id", TypeBigint),
			col("level", TypeText),
			col("song_id", TypeKey),
			col("artist_id", TypeKey),
			col("session_id", TypeBigint),
			col("location", TypeText),
			col("user_agent", TypeText),
		},
		PartitionBy: []string{"year", "month"},
	}
	usersTable = Table{
		Name: Users,
		Columns: []Column{
			primaryKey("user_id", TypeBigint),
			col("first_name", TypeText),
			col("last_name", TypeText),
			col("gender", TypeText),
			col("level", TypeText),
		},
	}
	songsTable = Table{
		Name: Songs,
		Columns: []Column{
			primaryKey("song_id", TypeKey),
			col("title", TypeText),
			required("artist_id", TypeKey),
			col("year", TypeInt),
			col("duration", TypeFloat),
		},
		PartitionBy: []string{"year", "artist_id"},
	}
	artistsTable = Table{
		Name: Artists,
		Columns: []Column{
			primaryKey("artist_id", TypeKey),
			col("name", TypeText),
			col("location", TypeText),
			col("latitude", TypeFloat),
			col("longitude", TypeFloat),
		},
	}
	timeTable = Table{
		Name: Time,
		Columns: []Column{
			primaryKey("start_time", TypeTimestamp),
			col("hour", TypeInt),
			col("day", TypeInt),
			col("week", TypeInt),
			col("month", TypeInt),
			col("year", TypeInt),
			col("weekday", TypeInt),
		},
		PartitionBy: []string{"year", "month"},
	}

	stagingEventsTable = Table{
		Name: StagingEvents,
		Columns: []Column{
			required("event_seq", TypeBigint),
			col("artist", TypeText),
			col("auth", TypeText),
			col("first_name", TypeText),
			col("gender", TypeText),
			col("item_in_session", TypeInt),
			col("last_name", TypeText),
			col("length", TypeFloat),
			col("level", TypeText),
			col("location", TypeText),
			col("method", TypeText),
			col("page", TypeText),
			col("registration", TypeFloat),
			col("session_id", TypeBigint),
			col("song", TypeText),
			col("status", TypeInt),
			col("ts", TypeBigint),
			col("user_agent", TypeText),
			col("user_id", TypeBigint),
		},
	}
	stagingSongsTable = Table{
		Name: StagingSongs,
		Columns: []Column{
			required("song_seq", TypeBigint),
			col("num_songs", TypeInt),
			col("artist_id", TypeKey),
			col("artist_latitude", TypeFloat),
			col("artist_longitude", TypeFloat),
			col("artist_location", TypeText),
			col("artist_name", TypeText),
			col("song_id", TypeKey),
			col("title", TypeText),
			col("duration", TypeFloat),
			col("year", TypeInt),
		},
	}
)

// StarTables returns the fact and dimension tables, fact first.
func StarTables() []Table {
	return []Table{songplaysTable, usersTable, songsTable, artistsTable, timeTable}
}

// StagingTables returns the warehouse staging tables.
func StagingTables() []Table {
	return []Table{stagingEventsTable, stagingSongsTable}
}

// Lookup returns the named star or staging table.
func Lookup(name string) (Table, bool) {
	for _, t := range append(StarTables(), StagingTables()...) {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
