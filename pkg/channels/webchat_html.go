package channels

func loginPage(errMsg string) string {
	errBlock := ""
	if errMsg != "" {
		errBlock = `<div class="login-error">` + errMsg + `</div>`
	}
	return `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Permachat - Login</title>
<style>
:root{
  --bg:#0c1117;--panel:#141a22;--border:#24303c;--accent:#2f9e6e;
  --accent-hover:#27865d;--text:#e4ecf2;--muted:#7a8a96;--error:#f87171;
}
*{box-sizing:border-box;margin:0;padding:0}
html,body{height:100%}
body{
  font-family:system-ui,-apple-system,sans-serif;background:var(--bg);color:var(--text);
  display:flex;align-items:center;justify-content:center;
}
.login-card{width:100%;max-width:360px;padding:36px 28px;background:var(--panel);
  border:1px solid var(--border);border-radius:14px}
.login-card h1{font-size:19px;font-weight:600;text-align:center;margin-bottom:4px}
.login-card .sub{font-size:13px;color:var(--muted);text-align:center;margin-bottom:24px}
.login-error{padding:10px 14px;margin-bottom:18px;border:1px solid rgba(248,113,113,.3);
  border-radius:8px;font-size:13px;color:var(--error)}
.field{margin-bottom:14px}
.field label{display:block;font-size:13px;color:var(--muted);margin-bottom:6px}
.field input{width:100%;padding:10px 13px;background:var(--bg);border:1px solid var(--border);
  border-radius:8px;color:var(--text);font-size:14px;font-family:inherit;outline:none}
.field input:focus{border-color:var(--accent)}
.login-btn{width:100%;padding:11px;margin-top:6px;background:var(--accent);color:#fff;
  border:none;border-radius:9px;font-size:14px;font-weight:600;font-family:inherit;cursor:pointer}
.login-btn:hover{background:var(--accent-hover)}
</style>
</head>
<body>
<form class="login-card" method="POST" action="/login">
  <h1>Permachat</h1>
  <p class="sub">Sign in to continue</p>
  ` + errBlock + `
  <div class="field"><label for="username">Username</label><input id="username" name="username" type="text" autocomplete="username" required autofocus></div>
  <div class="field"><label for="password">Password</label><input id="password" name="password" type="password" autocomplete="current-password" required></div>
  <button class="login-btn" type="submit">Sign in</button>
</form>
</body>
</html>`
}

const chatHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Permachat</title>
<style>
:root{
  --bg:#0c1117;--panel:#141a22;--bubble:#1a222c;--border:#24303c;
  --accent:#2f9e6e;--accent-hover:#27865d;--text:#e4ecf2;--muted:#7a8a96;
}
*{box-sizing:border-box;margin:0;padding:0}
html,body{height:100%}
body{font-family:system-ui,-apple-system,sans-serif;background:var(--bg);color:var(--text);
  display:flex;flex-direction:column;overflow:hidden}
#header{padding:14px 22px;background:var(--panel);border-bottom:1px solid var(--border);
  display:flex;align-items:center;gap:10px;flex-shrink:0}
#header h1{font-size:16px;font-weight:600}
#header .subtitle{font-size:12px;color:var(--muted)}
.header-right{margin-left:auto}
.logout-btn{border:1px solid var(--border);border-radius:8px;color:var(--muted);
  padding:6px 12px;font-size:12px;text-decoration:none}
.logout-btn:hover{color:var(--text)}
#messages{flex:1;overflow-y:auto;padding:22px;display:flex;flex-direction:column;gap:12px}
.msg-row{display:flex}
.msg-row.user{justify-content:flex-end}
.msg-bubble{max-width:72%;padding:11px 15px;border-radius:14px;line-height:1.6;
  font-size:14px;white-space:pre-wrap;word-wrap:break-word}
.msg-row.user .msg-bubble{background:var(--accent);color:#fff;border-bottom-right-radius:5px}
.msg-row.assistant .msg-bubble{background:var(--bubble);border:1px solid var(--border);
  border-bottom-left-radius:5px}
.msg-bubble a{color:#6fd3a5}
.msg-bubble .time{font-size:11px;color:var(--muted);margin-top:5px;display:block}
.msg-row.user .msg-bubble .time{color:rgba(255,255,255,.5)}
#input-area{padding:14px 22px 18px;background:var(--panel);border-top:1px solid var(--border);flex-shrink:0}
.input-wrapper{display:flex;gap:9px;background:var(--bg);border:1px solid var(--border);
  border-radius:11px;padding:4px 4px 4px 14px}
.input-wrapper:focus-within{border-color:var(--accent)}
#input{flex:1;padding:9px 0;border:none;font-size:14px;background:transparent;
  color:var(--text);outline:none;font-family:inherit}
#send{width:38px;height:38px;background:var(--accent);color:#fff;border:none;
  border-radius:9px;cursor:pointer;font-size:15px;flex-shrink:0}
#send:hover{background:var(--accent-hover)}
.hint{font-size:11px;color:var(--muted);text-align:center;margin-top:7px}
</style>
</head>
<body>
<div id="header">
  <div><h1>Permachat</h1><span class="subtitle">Permanent storage uploads</span></div>
  <div class="header-right"><a href="/logout" class="logout-btn">Sign out</a></div>
</div>
<div id="messages"></div>
<div id="input-area">
  <div class="input-wrapper">
    <input id="input" placeholder="Type /upload to store your next file forever" aria-label="Chat message input">
    <button id="send" aria-label="Send message">&#10148;</button>
  </div>
  <div class="hint">/upload pushes the next file you send the bot to permanent storage</div>
</div>
<script>
const msgsEl=document.getElementById("messages"),
      input=document.getElementById("input"),
      btn=document.getElementById("send");
let rendered=0;
function esc(s){return s.replace(/&/g,"&amp;").replace(/</g,"&lt;").replace(/>/g,"&gt;")}
function linkify(s){return s.replace(/(https?:\/\/[^\s]+)/g,'<a href="$1" target="_blank" rel="noopener">$1</a>')}
function addMsg(m){
  const row=document.createElement("div");row.className="msg-row "+m.role;
  const bubble=document.createElement("div");bubble.className="msg-bubble";
  bubble.innerHTML=linkify(esc(m.content))+(m.time?'<span class="time">'+m.time+'</span>':'');
  row.appendChild(bubble);
  msgsEl.appendChild(row);msgsEl.scrollTop=msgsEl.scrollHeight;
}
async function refresh(){
  try{
    const r=await fetch("/chat/poll?chat_id=default");
    if(r.status===401){window.location.href="/login";return}
    const msgs=await r.json()||[];
    for(;rendered<msgs.length;rendered++)addMsg(msgs[rendered]);
  }catch(e){}
}
async function send(){
  const m=input.value.trim();if(!m)return;
  input.value="";
  try{
    const r=await fetch("/chat/send",{method:"POST",headers:{"Content-Type":"application/json"},
      body:JSON.stringify({message:m,chat_id:"default"})});
    if(r.status===401){window.location.href="/login";return}
  }catch(e){}
  refresh();
}
btn.onclick=send;
input.onkeydown=e=>{if(e.key==="Enter")send()};
setInterval(refresh,2000);
refresh();
input.focus();
</script>
</body>
</html>`
