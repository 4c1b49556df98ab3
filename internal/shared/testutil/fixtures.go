package testutil

// Sample SIUS exports shared by package tests.
const (
	// SemicolonExport is a header plus five shots for two start numbers.
	SemicolonExport = "Start NR;Primary score;Secondary score\n" +
		"1;10.5;10\n" +
		"1;9.0;9\n" +
		"2;8.0;8\n" +
		"2;n/a;\n" +
		"3;10,9;10\n"

	// HeaderlessExport carries data in its first row.
	HeaderlessExport = "1;10.5\n1;9.0\n2;8.0\n"

	// ShotExport is a fuller SIUS shot listing with relay, time and position.
	ShotExport = "Relay;Start NR;Time;Primary score;Secondary score;X;Y\n" +
		"1;101;10:00:01;10.4;10;1.5;-2.0\n" +
		"1;101;10:00:45;9.8;9;-3.25;4.0\n" +
		"1;102;10:00:10;8.7;8;0;0\n" +
		"2;201;11:00:00;10.9;10;0.1;0.1\n" +
		"1;101;10:01:30;10.0;10;2;2\n"
)
